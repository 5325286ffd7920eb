package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/cli/config"
	"github.com/soochi-lab/soochi/pkg/usecase"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdPublish() *cli.Command {
	var cfg pipelineConfig

	return &cli.Command{
		Name:  "publish",
		Usage: "Collect feed articles and submit an extraction batch to OpenAI",
		Flags: cfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := cfg.build(ctx, buildOptions{
				needBatch: true,
				needFeeds: true,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to configure publish pipeline")
			}
			defer closer()

			return uc.Publish(ctx)
		},
	}
}

func cmdSubscribe() *cli.Command {
	var cfg pipelineConfig

	return &cli.Command{
		Name:  "subscribe",
		Usage: "Check the latest OpenAI batch and sync completed results",
		Flags: cfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := cfg.build(ctx, buildOptions{
				needLLM:   true,
				needBatch: true,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to configure subscribe pipeline")
			}
			defer closer()

			return uc.Subscribe(ctx)
		},
	}
}

func cmdProcess() *cli.Command {
	var cfg pipelineConfig

	return &cli.Command{
		Name:  "process",
		Usage: "Run the full pipeline synchronously (collect, extract, sync)",
		Flags: cfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := cfg.build(ctx, buildOptions{
				needLLM:   true,
				needFeeds: true,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to configure process pipeline")
			}
			defer closer()

			return uc.Process(ctx)
		},
	}
}

func cmdPrune() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "prune",
		Usage: "Delete seen URL records past the retention window",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, closer, err := buildRepoOnly(ctx, &repoCfg)
			if err != nil {
				return err
			}
			defer closer()

			uc := usecase.New(repo, nil, nil)
			if err := uc.Prune(ctx); err != nil {
				return err
			}

			logging.Default().Info("Prune completed")
			return nil
		},
	}
}
