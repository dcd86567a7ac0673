package ledger

import (
	"time"

	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// RecordKind discriminator values. Each kind is its own partition.
const (
	RecordKindActivity = "activity"
	RecordKindReaction = "reaction"
	RecordKindSummary  = "summary"
)

// SummaryRecord is the storage format for a run's final counters.
// Counter fields mirror metrics.Snapshot.
type SummaryRecord struct {
	RecordKind     string `json:"record_kind"`
	Outcome        string `json:"outcome"`
	Error          string `json:"error,omitempty"`
	CompletedAt    string `json:"completed_at"`
	ContentBackend string `json:"content_backend"`

	RecordsLoaded      int64 `json:"records_loaded"`
	RecordsMapped      int64 `json:"records_mapped"`
	RecordsDropped     int64 `json:"records_dropped"`
	ChunksSubmitted    int64 `json:"chunks_submitted"`
	ChunksFailed       int64 `json:"chunks_failed"`
	ActivitiesUploaded int64 `json:"activities_uploaded"`
	ImagesAttached     int64 `json:"images_attached"`
	ReactionsUploaded  int64 `json:"reactions_uploaded"`
	ReactionsFailed    int64 `json:"reactions_failed"`
	QuestionsCreated   int64 `json:"questions_created"`
	QuestionsFailed    int64 `json:"questions_failed"`
	RequestsSent       int64 `json:"requests_sent"`
	RequestsFailed     int64 `json:"requests_failed"`

	// Partition keys
	Command string `json:"command"`
	Day     string `json:"day"`
	RunID   string `json:"run_id"`
}

// Records are written as maps so the HiveLayout can read partition keys.

func toActivityRecordMap(cfg Config, seq int64, dto types.ActivityDTO) map[string]any {
	return map[string]any{
		"record_kind": RecordKindActivity,
		"seq":         seq,
		"description": dto.Description,
		"cost":        dto.Cost.String(),
		"source":      dto.Source,
		"icon":        dto.Icon,
		"command":     cfg.Command,
		"day":         cfg.Day,
		"run_id":      cfg.RunID,
	}
}

func toReactionRecordMap(cfg Config, seq int64, r types.RawReaction) map[string]any {
	return map[string]any{
		"record_kind": RecordKindReaction,
		"seq":         seq,
		"name":        r.Name,
		"image":       r.Image,
		"command":     cfg.Command,
		"day":         cfg.Day,
		"run_id":      cfg.RunID,
	}
}

func toSummaryRecordMap(cfg Config, snap metrics.Snapshot, outcome, runErr string, completedAt time.Time) map[string]any {
	m := map[string]any{
		"record_kind":         RecordKindSummary,
		"outcome":             outcome,
		"completed_at":        completedAt.UTC().Format(time.RFC3339),
		"records_loaded":      snap.RecordsLoaded,
		"records_mapped":      snap.RecordsMapped,
		"records_dropped":     snap.RecordsDropped,
		"chunks_submitted":    snap.ChunksSubmitted,
		"chunks_failed":       snap.ChunksFailed,
		"activities_uploaded": snap.ActivitiesUploaded,
		"images_attached":     snap.ImagesAttached,
		"reactions_uploaded":  snap.ReactionsUploaded,
		"reactions_failed":    snap.ReactionsFailed,
		"questions_created":   snap.QuestionsCreated,
		"questions_failed":    snap.QuestionsFailed,
		"requests_sent":       snap.RequestsSent,
		"requests_failed":     snap.RequestsFailed,
		"content_backend":     snap.ContentBackend,
		"command":             cfg.Command,
		"day":                 cfg.Day,
		"run_id":              cfg.RunID,
	}
	if runErr != "" {
		m["error"] = runErr
	}
	return m
}
