package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/justapithecus/lode/lode"
)

// ErrNoSummaryFound is returned when no summary record matches.
var ErrNoSummaryFound = errors.New("no run summary found")

// LatestSummary finds the most recent summary record.
// Filters by runID and command if non-empty.
func LatestSummary(ctx context.Context, ds lode.Dataset, runID, command string) (*SummaryRecord, error) {
	snapshots, err := ds.Snapshots(ctx)
	if err != nil {
		wrapped := WrapReadError(err, DatasetID+"/snapshots")
		if errors.Is(wrapped, ErrNotFound) {
			// A ledger root nothing was written to yet.
			return nil, ErrNoSummaryFound
		}
		return nil, wrapped
	}

	// Snapshots are ordered by creation time; walk latest first.
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]

		if !snapshotMatchesFilter(snap, "record_kind", RecordKindSummary) {
			continue
		}
		if !snapshotMatchesFilter(snap, "run_id", runID) {
			continue
		}
		if !snapshotMatchesFilter(snap, "command", command) {
			continue
		}

		data, err := ds.Read(ctx, snap.ID)
		if err != nil {
			return nil, WrapReadError(err, fmt.Sprintf("%s/snapshot/%s", DatasetID, snap.ID))
		}

		// Path filtering is coarse; record fields are authoritative.
		for _, item := range data {
			record, ok := item.(map[string]any)
			if !ok || record["record_kind"] != RecordKindSummary {
				continue
			}
			if runID != "" && toString(record["run_id"]) != runID {
				continue
			}
			if command != "" && toString(record["command"]) != command {
				continue
			}
			return decodeSummary(record)
		}
	}

	return nil, ErrNoSummaryFound
}

func decodeSummary(record map[string]any) (*SummaryRecord, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode summary record: %w", err)
	}
	var s SummaryRecord
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode summary record: %w", err)
	}
	return &s, nil
}

// snapshotMatchesFilter checks if any of a snapshot's file paths carry the
// given partition key=value. An empty value matches everything.
func snapshotMatchesFilter(snap *lode.DatasetSnapshot, key, value string) bool {
	if value == "" {
		return true
	}
	for _, f := range snap.Manifest.Files {
		if matchesPartitionValue(f.Path, key, value) {
			return true
		}
	}
	return false
}

// matchesPartitionValue checks for an exact key=value path segment, so
// run_id=run-1 does not match run_id=run-10.
func matchesPartitionValue(path, key, value string) bool {
	segment := key + "=" + value
	for _, part := range strings.Split(path, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
