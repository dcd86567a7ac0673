package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/config"
	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/types"
	"github.com/pithecene-io/seedbank/upload"
)

// ReactionsCommand returns the reactions command.
func ReactionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "reactions",
		Usage:     "Upload reactions from a directory",
		ArgsUsage: "<reactions_dir>",
		Flags:     append([]cli.Flag{reactionsFileFlag()}, SeedFlags()...),
		Action:    reactionsAction,
	}
}

func reactionsAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("reactions takes at most one <reactions_dir> argument", exitFailure)
	}

	return runSeed(c, "reactions", func(ctx context.Context, env *runEnv) error {
		dir := c.Args().First()
		if dir == "" {
			dir = configVal(env.cfg, func(c *config.Config) string { return c.Reactions.Dir })
		}
		if dir == "" {
			return types.ConfigError("reactions directory is required (<reactions_dir> or reactions.dir in config)")
		}

		target, err := openReactions(ctx, c, env, dir)
		if err != nil {
			return err
		}
		env.contentSource = target.store.String()

		headers, err := env.authenticate(ctx)
		if err != nil {
			return err
		}
		return target.upload(ctx, env, headers)
	})
}

// reactionsTarget is an opened reactions directory.
type reactionsTarget struct {
	store content.Store
	file  string
}

func openReactions(ctx context.Context, c *cli.Context, env *runEnv, dir string) (*reactionsTarget, error) {
	store, err := env.content.openDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	return &reactionsTarget{
		store: store,
		file:  resolveString(c, "reactions-file", configVal(env.cfg, func(c *config.Config) string { return c.Reactions.File })),
	}, nil
}

func (t *reactionsTarget) upload(ctx context.Context, env *runEnv, headers types.AuthHeaders) error {
	reactions, err := content.LoadReactions(ctx, t.store, t.file)
	if err != nil {
		return err
	}
	env.logger.Info(fmt.Sprintf("Loaded %d reactions.", len(reactions)), map[string]any{"source": t.store.String()})

	err = upload.NewReactionUploader(env.sender, headers, t.store, env.logger, env.collector).Upload(ctx, reactions)
	env.recordReactions(context.WithoutCancel(ctx), reactions)
	return err
}
