package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdDoctor() *cli.Command {
	var cfg pipelineConfig

	return &cli.Command{
		Name:  "doctor",
		Usage: "Check connectivity of the configured backends",
		Flags: cfg.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ok := true
			ok = runCheck("feeds", checkFeeds(&cfg)) && ok
			ok = runCheck("repository", checkRepository(ctx, &cfg)) && ok
			ok = runCheck("vector index", checkVector(ctx, &cfg)) && ok
			ok = runCheck("notion", checkNotion(ctx, &cfg)) && ok

			if !ok {
				return goerr.New("one or more checks failed")
			}
			return nil
		},
	}
}

func runCheck(name string, err error) bool {
	if err != nil {
		color.Red("✗ %s: %v", name, err)
		return false
	}
	color.Green("✓ %s", name)
	return true
}

func checkFeeds(cfg *pipelineConfig) error {
	feeds, err := cfg.feedsCfg.Configure()
	if err != nil {
		return err
	}
	enabled := 0
	for _, feed := range feeds {
		if feed.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return goerr.New("no enabled feeds", goerr.V("path", cfg.feedsCfg.Path()))
	}
	fmt.Printf("  %d feeds configured, %d enabled\n", len(feeds), enabled)
	return nil
}

func checkRepository(ctx context.Context, cfg *pipelineConfig) error {
	repo, err := cfg.repoCfg.Configure(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(repo.Close, "repository")

	count, err := repo.SeenURL().Count(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to count seen URLs")
	}
	fmt.Printf("  %d seen URLs recorded\n", count)
	return nil
}

func checkVector(ctx context.Context, cfg *pipelineConfig) error {
	index, err := cfg.vectorCfg.Configure(ctx)
	if err != nil {
		return err
	}
	return index.Close()
}

func checkNotion(ctx context.Context, cfg *pipelineConfig) error {
	if !cfg.notionCfg.IsConfigured() {
		fmt.Println("  not configured, mirroring disabled")
		return nil
	}
	svc, err := cfg.notionCfg.Configure()
	if err != nil {
		return err
	}
	return svc.Check(ctx)
}
