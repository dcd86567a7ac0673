// Package cmd provides CLI commands for the seedbank binary.
package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/auth"
	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/transport"
)

// Output flags shared by every command.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// QuietFlag suppresses the run summary.
	QuietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Suppress the run summary",
	}
)

// OutputFlags returns the rendering flags.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
	}
}

// SeedFlags returns the flags shared by the seeding commands: connection,
// authentication, content location, notification, and output.
func SeedFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to seedbank.yaml config file (CLI flags override config values)",
		},
		&cli.StringFlag{
			Name:    "api-url",
			Aliases: []string{"a"},
			Usage:   "Base URL of the content service",
			Value:   transport.DefaultBaseURL,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout (0 = none)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log encoder: console, json",
			Value: string(log.FormatConsole),
		},

		// Auth
		&cli.BoolFlag{
			Name:  "no-auth",
			Usage: "Skip authentication and send requests without a bearer token",
		},
		&cli.BoolFlag{
			Name:    "register",
			Aliases: []string{"r"},
			Usage:   "Register the seeding user instead of logging in",
		},
		&cli.StringFlag{
			Name:    "email",
			Aliases: []string{"e"},
			Usage:   "Email of the seeding user",
			Value:   auth.DefaultEmail,
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Password of the seeding user",
			Value:   auth.DefaultPassword,
		},

		// Content
		&cli.StringFlag{
			Name:  "content-backend",
			Usage: "Content bank backend: fs, s3",
			Value: content.BackendFS,
		},
		&cli.StringFlag{
			Name:  "content-path",
			Usage: "Content root (fs: directory, s3: bucket/prefix)",
		},
		&cli.StringFlag{
			Name:  "content-s3-region",
			Usage: "AWS region for S3 content (uses default chain if not set)",
		},
		&cli.StringFlag{
			Name:  "content-s3-endpoint",
			Usage: "Custom S3 endpoint URL (for R2, MinIO, etc.)",
		},
		&cli.BoolFlag{
			Name:  "content-s3-path-style",
			Usage: "Force path-style addressing for S3 (required by R2, MinIO)",
		},

		// Notify
		&cli.StringFlag{
			Name:  "notify-type",
			Usage: "Completion notifier: webhook, redis (default: none)",
		},
		&cli.StringFlag{
			Name:  "notify-url",
			Usage: "Notifier endpoint (webhook URL or redis:// URL)",
		},
		&cli.StringFlag{
			Name:  "notify-channel",
			Usage: "Redis channel for completion events",
		},

		QuietFlag,
	}
	flags = append(flags, LedgerFlags()...)
	return append(flags, OutputFlags()...)
}

// LedgerFlags returns the run ledger flags. They are shared by the seeding
// commands, which write the ledger, and the summary command, which reads it.
func LedgerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ledger-backend",
			Usage: "Run ledger backend: fs, s3",
			Value: ledgerBackendFS,
		},
		&cli.StringFlag{
			Name:  "ledger-path",
			Usage: "Run ledger root (fs: directory, s3: bucket/prefix); empty disables the ledger",
		},
		&cli.StringFlag{
			Name:  "ledger-s3-region",
			Usage: "AWS region for the S3 ledger (uses default chain if not set)",
		},
		&cli.StringFlag{
			Name:  "ledger-s3-endpoint",
			Usage: "Custom S3 endpoint URL for the ledger (for R2, MinIO, etc.)",
		},
		&cli.BoolFlag{
			Name:  "ledger-s3-path-style",
			Usage: "Force path-style addressing for the S3 ledger",
		},
	}
}

// reactionsFileFlag names the metadata file inside a reactions directory.
func reactionsFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "reactions-file",
		Usage: "Reaction metadata file inside the reactions directory",
		Value: content.DefaultReactionsFile,
	}
}
