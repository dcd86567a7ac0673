package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

func TestNewSeedCompletedEvent(t *testing.T) {
	meta := types.RunMeta{RunID: "run-001", Command: "activities"}
	started := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	finished := started.Add(1500 * time.Millisecond)
	snap := metrics.Snapshot{ChunksSubmitted: 3}

	ev := NewSeedCompletedEvent(meta, "http://localhost:8080/", "/data/bank", started, finished, snap, nil)

	if ev.EventType != EventType {
		t.Errorf("EventType = %q, want %q", ev.EventType, EventType)
	}
	if ev.ContractVersion != types.EventContractVersion {
		t.Errorf("ContractVersion = %q, want %q", ev.ContractVersion, types.EventContractVersion)
	}
	if ev.Outcome != OutcomeSuccess || ev.Error != "" {
		t.Errorf("Outcome = %q, Error = %q", ev.Outcome, ev.Error)
	}
	if ev.Timestamp != "2026-02-07T12:00:01Z" {
		t.Errorf("Timestamp = %q", ev.Timestamp)
	}
	if ev.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", ev.DurationMs)
	}
	if ev.Metrics.ChunksSubmitted != 3 {
		t.Errorf("Metrics.ChunksSubmitted = %d, want 3", ev.Metrics.ChunksSubmitted)
	}
}

func TestNewSeedCompletedEvent_Failure(t *testing.T) {
	now := time.Now()
	ev := NewSeedCompletedEvent(types.RunMeta{RunID: "r", Command: "reactions"}, "", "", now, now, metrics.Snapshot{}, errors.New("upload failed"))

	if ev.Outcome != OutcomeFailure {
		t.Errorf("Outcome = %q, want %q", ev.Outcome, OutcomeFailure)
	}
	if ev.Error != "upload failed" {
		t.Errorf("Error = %q", ev.Error)
	}
}
