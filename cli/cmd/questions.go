package cmd

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/config"
	"github.com/pithecene-io/seedbank/question"
	"github.com/pithecene-io/seedbank/types"
)

// QuestionsCommand returns the questions command.
func QuestionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "questions",
		Usage: "Generate multiple-choice questions on the service",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "multiple-choice",
				Aliases: []string{"m"},
				Usage:   "Number of multiple-choice questions to create",
				Value:   question.DefaultCount,
			},
		}, SeedFlags()...),
		Action: questionsAction,
	}
}

func questionsAction(c *cli.Context) error {
	return runSeed(c, "questions", func(ctx context.Context, env *runEnv) error {
		count := resolveInt(c, "multiple-choice", configVal(env.cfg, func(c *config.Config) *int { return c.Questions.MultipleChoice }))
		if count < 1 {
			return types.ConfigError("--multiple-choice must be at least 1, got %d", count)
		}

		headers, err := env.authenticate(ctx)
		if err != nil {
			return err
		}
		return question.NewGenerator(env.sender, headers, env.logger, env.collector).Generate(ctx, count)
	})
}
