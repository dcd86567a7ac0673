// Package ledger records what a seeding run delivered in a Lode dataset.
//
// Records use Lode's HiveLayout with partition keys
// command/day/run_id/record_kind and are encoded as JSONL. The ledger is
// written after the uploads it describes, so it only ever lists content
// the service accepted.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// DatasetID is the Lode dataset every run writes to.
const DatasetID = "seedbank"

// partitionKeys is the Hive layout shared by writers and readers.
var partitionKeys = []string{"command", "day", "run_id", "record_kind"}

// DeriveDay computes the partition day from run start time (YYYY-MM-DD UTC).
func DeriveDay(startTime time.Time) string {
	return startTime.UTC().Format("2006-01-02")
}

// Config holds the partition values for one run.
type Config struct {
	// Command is the CLI command that produced the run.
	Command string
	// Day is derived from the run start time.
	Day string
	// RunID is the run identifier.
	RunID string
}

// Ledger writes run records to a Lode dataset.
type Ledger struct {
	dataset lode.Dataset
	config  Config

	mu sync.Mutex
}

// NewFS creates a ledger with filesystem storage under root.
func NewFS(cfg Config, root string) (*Ledger, error) {
	return NewWithFactory(cfg, lode.NewFSFactory(root))
}

// NewWithFactory creates a ledger with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewWithFactory(cfg Config, factory lode.StoreFactory) (*Ledger, error) {
	ds, err := newDataset(factory)
	if err != nil {
		return nil, WrapInitError(err, DatasetID)
	}
	return &Ledger{dataset: ds, config: cfg}, nil
}

// NewReadDataset opens the ledger dataset for reading.
func NewReadDataset(factory lode.StoreFactory) (lode.Dataset, error) {
	return newDataset(factory)
}

func newDataset(factory lode.StoreFactory) (lode.Dataset, error) {
	return lode.NewDataset(
		lode.DatasetID(DatasetID),
		factory,
		lode.WithHiveLayout(partitionKeys...),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
}

// WriteActivities records activities accepted by the service, in upload order.
func (l *Ledger) WriteActivities(ctx context.Context, dtos []types.ActivityDTO) error {
	if len(dtos) == 0 {
		return nil
	}
	records := make([]any, 0, len(dtos))
	for i, dto := range dtos {
		records = append(records, toActivityRecordMap(l.config, int64(i), dto))
	}
	return l.write(ctx, records)
}

// WriteReactions records reactions accepted by the service, in upload order.
func (l *Ledger) WriteReactions(ctx context.Context, reactions []types.RawReaction) error {
	if len(reactions) == 0 {
		return nil
	}
	records := make([]any, 0, len(reactions))
	for i, r := range reactions {
		records = append(records, toReactionRecordMap(l.config, int64(i), r))
	}
	return l.write(ctx, records)
}

// WriteSummary records the run's final counters and outcome.
func (l *Ledger) WriteSummary(ctx context.Context, snap metrics.Snapshot, outcome, runErr string, completedAt time.Time) error {
	return l.write(ctx, []any{toSummaryRecordMap(l.config, snap, outcome, runErr, completedAt)})
}

func (l *Ledger) write(ctx context.Context, records []any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.dataset.Write(ctx, records, lode.Metadata{}); err != nil {
		return WrapWriteError(err, DatasetID+"/"+l.config.RunID)
	}
	return nil
}

// Close releases ledger resources.
func (l *Ledger) Close() error {
	// Dataset doesn't require explicit close in current Lode API
	return nil
}
