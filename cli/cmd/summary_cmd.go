package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/render"
	"github.com/pithecene-io/seedbank/ledger"
	"github.com/pithecene-io/seedbank/types"
)

// SummaryCommand returns the summary command.
// It reads the latest run summary back from the ledger and never contacts
// the service.
func SummaryCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to seedbank.yaml config file (CLI flags override config values)",
		},
		&cli.StringFlag{
			Name:  "run-id",
			Usage: "Show the summary of this run instead of the latest",
		},
		&cli.StringFlag{
			Name:  "run-command",
			Usage: "Only consider runs of this command (activities, reactions, questions)",
		},
	}
	flags = append(flags, LedgerFlags()...)
	return &cli.Command{
		Name:   "summary",
		Usage:  "Show the latest recorded run summary from the ledger",
		Flags:  append(flags, OutputFlags()...),
		Action: summaryAction,
	}
}

func summaryAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	lc, err := resolveLedger(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	if !lc.enabled() {
		return cli.Exit(types.ConfigError("--ledger-path is required to read run summaries").Error(), exitFailure)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	factory, err := lc.factory(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	ds, err := ledger.NewReadDataset(factory)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	record, err := ledger.LatestSummary(c.Context, ds, c.String("run-id"), c.String("run-command"))
	if errors.Is(err, ledger.ErrNoSummaryFound) {
		return cli.Exit("no run summary found in the ledger", exitFailure)
	}
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	r.Title("Run Summary")
	return r.Render(record)
}
