package cmd

import (
	"time"

	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/notify"
	"github.com/pithecene-io/seedbank/types"
)

// Summary is the result printed after a seeding command.
type Summary struct {
	RunID                  string `json:"run_id" yaml:"run_id"`
	Command                string `json:"command" yaml:"command"`
	Outcome                string `json:"outcome" yaml:"outcome"`
	Error                  string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration               string `json:"duration" yaml:"duration"`
	ContentSource          string `json:"content_source,omitempty" yaml:"content_source,omitempty"`
	RecordsLoaded          int64  `json:"records_loaded" yaml:"records_loaded"`
	RecordsMapped          int64  `json:"records_mapped" yaml:"records_mapped"`
	RecordsDropped         int64  `json:"records_dropped" yaml:"records_dropped"`
	DescriptionTruncations int64  `json:"description_truncations" yaml:"description_truncations"`
	SourceTruncations      int64  `json:"source_truncations" yaml:"source_truncations"`
	ChunksSubmitted        int64  `json:"chunks_submitted" yaml:"chunks_submitted"`
	ActivitiesUploaded     int64  `json:"activities_uploaded" yaml:"activities_uploaded"`
	ImagesAttached         int64  `json:"images_attached" yaml:"images_attached"`
	ReactionsUploaded      int64  `json:"reactions_uploaded" yaml:"reactions_uploaded"`
	QuestionsCreated       int64  `json:"questions_created" yaml:"questions_created"`
	RequestsSent           int64  `json:"requests_sent" yaml:"requests_sent"`
	RequestsFailed         int64  `json:"requests_failed" yaml:"requests_failed"`
}

func newSummary(meta types.RunMeta, contentSource string, duration time.Duration, snap metrics.Snapshot, runErr error) Summary {
	s := Summary{
		RunID:                  meta.RunID,
		Command:                meta.Command,
		Duration:               duration.Round(time.Millisecond).String(),
		ContentSource:          contentSource,
		RecordsLoaded:          snap.RecordsLoaded,
		RecordsMapped:          snap.RecordsMapped,
		RecordsDropped:         snap.RecordsDropped,
		DescriptionTruncations: snap.DescriptionTruncations,
		SourceTruncations:      snap.SourceTruncations,
		ChunksSubmitted:        snap.ChunksSubmitted,
		ActivitiesUploaded:     snap.ActivitiesUploaded,
		ImagesAttached:         snap.ImagesAttached,
		ReactionsUploaded:      snap.ReactionsUploaded,
		QuestionsCreated:       snap.QuestionsCreated,
		RequestsSent:           snap.RequestsSent,
		RequestsFailed:         snap.RequestsFailed,
	}
	s.Outcome, s.Error = outcomeOf(runErr)
	return s
}

// outcomeOf returns the outcome label and error message for a run result.
func outcomeOf(runErr error) (outcome, message string) {
	if runErr != nil {
		return notify.OutcomeFailure, runErr.Error()
	}
	return notify.OutcomeSuccess, ""
}
