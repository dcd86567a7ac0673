// Package main provides the seedbank CLI entrypoint.
//
// Usage:
//
//	seedbank <command> [options] [args]
//
// Commands: activities, reactions, questions, summary, version.
//
// Exit codes:
//   - 0: success
//   - 1: any failure (configuration, malformed input, auth, upload, network)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/cmd"
	"github.com/pithecene-io/seedbank/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "seedbank",
		Usage:          "Seed a content service from an offline content bank",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.ActivitiesCommand(),
			cmd.ReactionsCommand(),
			cmd.QuestionsCommand(),
			cmd.SummaryCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		os.Exit(1)
	}
}

// exitErrHandler prints the error message and exits with the code carried by
// a cli.ExitCoder, or 1 for any other error.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	code, msg := exitStatus(err)
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(code)
}

// exitStatus returns the exit code and the message worth printing for err.
// cli.Exit("", N).Error() returns "exit status N", which is suppressed.
func exitStatus(err error) (int, string) {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg == fmt.Sprintf("exit status %d", code) {
			msg = ""
		}
		return code, msg
	}
	return 1, fmt.Sprintf("Error: %v", err)
}
