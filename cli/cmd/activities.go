package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/activity"
	"github.com/pithecene-io/seedbank/cli/config"
	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/upload"
)

// ActivitiesCommand returns the activities command.
// It maps an activities JSON file into DTOs and uploads them in chunks,
// then optionally uploads a reactions directory with the same token.
func ActivitiesCommand() *cli.Command {
	return &cli.Command{
		Name:      "activities",
		Usage:     "Upload activities from a JSON file",
		ArgsUsage: "<activities.json>",
		Flags:     append(activityFlags(), SeedFlags()...),
		Action:    activitiesAction,
	}
}

func activityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "chunk-size",
			Aliases: []string{"c"},
			Usage:   "Activities per upload request",
			Value:   upload.DefaultChunkSize,
		},
		&cli.BoolFlag{
			Name:  "with-images",
			Usage: "Upload each chunk as multipart with the activity images attached",
		},
		&cli.IntFlag{
			Name:    "description-len",
			Aliases: []string{"d"},
			Usage:   "Maximum description length in characters",
			Value:   activity.DefaultDescriptionLen,
		},
		&cli.IntFlag{
			Name:    "source-len",
			Aliases: []string{"s"},
			Usage:   "Maximum source URL length in characters",
			Value:   activity.DefaultSourceLen,
		},
		&cli.BoolFlag{
			Name:    "allow-negative",
			Aliases: []string{"n"},
			Usage:   "Keep activities with a negative cost",
		},
		&cli.StringFlag{
			Name:  "reactions-dir",
			Usage: "Also upload the reactions in this directory after the activities",
		},
		reactionsFileFlag(),
	}
}

func activitiesAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("activities requires exactly one <activities.json> argument", exitFailure)
	}
	target := c.Args().First()

	return runSeed(c, "activities", func(ctx context.Context, env *runEnv) error {
		cfg := env.cfg
		limits := activity.Limits{
			DescriptionLen: resolveInt(c, "description-len", configVal(cfg, func(c *config.Config) *int { return c.Activities.DescriptionLen })),
			SourceLen:      resolveInt(c, "source-len", configVal(cfg, func(c *config.Config) *int { return c.Activities.SourceLen })),
			AllowNegative:  resolveBool(c, "allow-negative", configVal(cfg, func(c *config.Config) bool { return c.Activities.AllowNegative })),
		}
		if err := limits.Validate(); err != nil {
			return err
		}

		upCfg := upload.Config{
			ChunkSize:  resolveInt(c, "chunk-size", configVal(cfg, func(c *config.Config) *int { return c.Activities.ChunkSize })),
			WithImages: resolveBool(c, "with-images", configVal(cfg, func(c *config.Config) bool { return c.Activities.WithImages })),
		}
		if err := upCfg.Validate(); err != nil {
			return err
		}

		store, name, err := env.content.openFile(ctx, target)
		if err != nil {
			return err
		}
		env.contentSource = store.String()

		var reactions *reactionsTarget
		if dir := resolveString(c, "reactions-dir", configVal(cfg, func(c *config.Config) string { return c.Reactions.Dir })); dir != "" {
			reactions, err = openReactions(ctx, c, env, dir)
			if err != nil {
				return err
			}
		}

		mapper, err := activity.NewMapper(limits, env.logger, env.collector)
		if err != nil {
			return err
		}

		headers, err := env.authenticate(ctx)
		if err != nil {
			return err
		}

		submitter, err := upload.NewSubmitter(upCfg, env.sender, headers, store)
		if err != nil {
			return err
		}
		uploader, err := upload.NewBatchUploader(upCfg, submitter, env.logger, env.collector)
		if err != nil {
			return err
		}

		raws, err := content.LoadActivities(ctx, store, name)
		if err != nil {
			return err
		}
		env.logger.Info(fmt.Sprintf("Loaded %d activities.", len(raws)), map[string]any{"source": store.String()})

		dtos := mapper.MapAll(raws)
		env.logger.Info("Successfully mapped activities into ActivityDTO format.", map[string]any{
			"mapped":  len(dtos),
			"dropped": len(raws) - len(dtos),
		})

		err = uploader.Upload(ctx, dtos)
		env.recordActivities(context.WithoutCancel(ctx), dtos)
		if err != nil {
			return err
		}

		if reactions == nil {
			return nil
		}
		return reactions.upload(ctx, env, headers)
	})
}
