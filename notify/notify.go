// Package notify defines the completion-notification boundary.
//
// Notifiers tell downstream systems that a seeding run finished. Delivery is
// a single attempt; a failed notification never fails the run.
package notify

import (
	"context"
	"time"

	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// EventType is the value of SeedCompletedEvent.EventType.
const EventType = "seed_completed"

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SeedCompletedEvent is the payload published when a run finishes.
type SeedCompletedEvent struct {
	ContractVersion string           `json:"contract_version"`
	EventType       string           `json:"event_type"` // always "seed_completed"
	RunID           string           `json:"run_id"`
	Command         string           `json:"command"`
	Outcome         string           `json:"outcome"`
	Error           string           `json:"error,omitempty"`
	APIURL          string           `json:"api_url"`
	ContentSource   string           `json:"content_source,omitempty"`
	Timestamp       string           `json:"timestamp"` // RFC 3339, UTC
	DurationMs      int64            `json:"duration_ms"`
	Metrics         metrics.Snapshot `json:"metrics"`
}

// NewSeedCompletedEvent builds the event for a finished run. runErr is the
// run's terminal error, nil on success.
func NewSeedCompletedEvent(meta types.RunMeta, apiURL, contentSource string, started, finished time.Time, snap metrics.Snapshot, runErr error) *SeedCompletedEvent {
	ev := &SeedCompletedEvent{
		ContractVersion: types.EventContractVersion,
		EventType:       EventType,
		RunID:           meta.RunID,
		Command:         meta.Command,
		Outcome:         OutcomeSuccess,
		APIURL:          apiURL,
		ContentSource:   contentSource,
		Timestamp:       finished.UTC().Format(time.RFC3339),
		DurationMs:      finished.Sub(started).Milliseconds(),
		Metrics:         snap,
	}
	if runErr != nil {
		ev.Outcome = OutcomeFailure
		ev.Error = runErr.Error()
	}
	return ev
}

// Notifier publishes completion events to a downstream system.
// Implementations are single-use per run.
type Notifier interface {
	// Publish sends the event once. Must respect context cancellation.
	Publish(ctx context.Context, event *SeedCompletedEvent) error

	// Close releases notifier resources.
	Close() error
}
