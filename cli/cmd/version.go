package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/render"
	"github.com/pithecene-io/seedbank/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version         string `json:"version"`
	Commit          string `json:"commit"`
	ContractVersion string `json:"event_contract_version"`
}

// VersionCommand returns the version command.
// It must not contact the service.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  OutputFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return cli.Exit(err.Error(), exitFailure)
		}

		return r.Render(VersionResponse{
			Version:         types.Version,
			Commit:          commit,
			ContractVersion: types.EventContractVersion,
		})
	}
}
