package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/justapithecus/lode/lode"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/config"
	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/ledger"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// Ledger backends accepted by --ledger-backend.
const (
	ledgerBackendFS = "fs"
	ledgerBackendS3 = "s3"
)

// ledgerChoice holds the resolved run ledger location.
type ledgerChoice struct {
	backend   string
	path      string
	region    string
	endpoint  string
	pathStyle bool
}

func (lc ledgerChoice) enabled() bool {
	return lc.path != ""
}

func resolveLedger(c *cli.Context, cfg *config.Config) (ledgerChoice, error) {
	lc := ledgerChoice{
		backend:   strings.ToLower(resolveString(c, "ledger-backend", configVal(cfg, func(c *config.Config) string { return c.Ledger.Backend }))),
		path:      resolveString(c, "ledger-path", configVal(cfg, func(c *config.Config) string { return c.Ledger.Path })),
		region:    resolveString(c, "ledger-s3-region", configVal(cfg, func(c *config.Config) string { return c.Ledger.Region })),
		endpoint:  resolveString(c, "ledger-s3-endpoint", configVal(cfg, func(c *config.Config) string { return c.Ledger.Endpoint })),
		pathStyle: resolveBool(c, "ledger-s3-path-style", configVal(cfg, func(c *config.Config) bool { return c.Ledger.S3PathStyle })),
	}
	switch lc.backend {
	case "":
		lc.backend = ledgerBackendFS
	case ledgerBackendFS, ledgerBackendS3:
	default:
		return ledgerChoice{}, types.ConfigError("unknown ledger backend %q (must be fs or s3)", lc.backend)
	}
	return lc, nil
}

func (lc ledgerChoice) s3Config() ledger.S3Config {
	bucket, prefix := content.ParseS3Path(lc.path)
	return ledger.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       lc.region,
		Endpoint:     lc.endpoint,
		UsePathStyle: lc.pathStyle,
	}
}

// factory returns the Lode store factory for the ledger location.
func (lc ledgerChoice) factory(ctx context.Context) (lode.StoreFactory, error) {
	if lc.backend == ledgerBackendS3 {
		factory, err := ledger.NewS3Factory(ctx, lc.s3Config())
		if err != nil {
			return nil, types.NewError(types.ErrConfig, "config", err)
		}
		return factory, nil
	}
	return lode.NewFSFactory(lc.path), nil
}

// open returns nil when the ledger is disabled.
func (lc ledgerChoice) open(ctx context.Context, meta types.RunMeta, started time.Time) (*ledger.Ledger, error) {
	if !lc.enabled() {
		return nil, nil
	}
	cfg := ledger.Config{
		Command: meta.Command,
		Day:     ledger.DeriveDay(started),
		RunID:   meta.RunID,
	}

	var l *ledger.Ledger
	var err error
	if lc.backend == ledgerBackendS3 {
		l, err = ledger.NewS3(ctx, cfg, lc.s3Config())
	} else {
		l, err = ledger.NewFS(cfg, lc.path)
	}
	if err != nil {
		return nil, types.NewError(types.ErrConfig, "config", err)
	}
	return l, nil
}

// recordActivities writes the accepted activities to the ledger. Uploads
// stop at the first failed chunk, so the accepted ones are a prefix.
func (e *runEnv) recordActivities(ctx context.Context, dtos []types.ActivityDTO) {
	if e.ledger == nil {
		return
	}
	n := min(int(e.collector.Snapshot().ActivitiesUploaded), len(dtos))
	if err := e.ledger.WriteActivities(ctx, dtos[:n]); err != nil {
		e.logger.Warn("Failed to record activities in ledger", map[string]any{"error": err.Error()})
	}
}

// recordReactions writes the accepted reactions to the ledger.
func (e *runEnv) recordReactions(ctx context.Context, reactions []types.RawReaction) {
	if e.ledger == nil {
		return
	}
	n := min(int(e.collector.Snapshot().ReactionsUploaded), len(reactions))
	if err := e.ledger.WriteReactions(ctx, reactions[:n]); err != nil {
		e.logger.Warn("Failed to record reactions in ledger", map[string]any{"error": err.Error()})
	}
}

func (e *runEnv) recordSummary(ctx context.Context, finished time.Time, snap metrics.Snapshot, runErr error) {
	if e.ledger == nil {
		return
	}
	outcome, errMsg := outcomeOf(runErr)
	if err := e.ledger.WriteSummary(ctx, snap, outcome, errMsg, finished); err != nil {
		e.logger.Warn("Failed to record run summary in ledger", map[string]any{"error": err.Error()})
		return
	}
	e.logger.Debug("Recorded run summary in ledger", map[string]any{"dataset": ledger.DatasetID})
}
