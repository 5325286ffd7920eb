package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/cli/config"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	"github.com/soochi-lab/soochi/pkg/service/ai"
	"github.com/soochi-lab/soochi/pkg/service/openaibatch"
	"github.com/soochi-lab/soochi/pkg/usecase"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// pipelineConfig bundles the flags shared by every pipeline command
type pipelineConfig struct {
	repoCfg   config.Repository
	vectorCfg config.Vector
	llmCfg    config.LLM
	batchCfg  config.Batch
	notionCfg config.Notion
	slackCfg  config.Slack
	feedsCfg  config.Feeds
	tuningCfg config.Tuning
}

// buildOptions selects which optional dependencies a command needs
type buildOptions struct {
	needLLM   bool
	needBatch bool
	needFeeds bool
}

func (p *pipelineConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, p.repoCfg.Flags()...)
	flags = append(flags, p.vectorCfg.Flags()...)
	flags = append(flags, p.llmCfg.Flags()...)
	flags = append(flags, p.batchCfg.Flags()...)
	flags = append(flags, p.notionCfg.Flags()...)
	flags = append(flags, p.slackCfg.Flags()...)
	flags = append(flags, p.feedsCfg.Flags()...)
	flags = append(flags, p.tuningCfg.Flags()...)
	return flags
}

// build assembles the use cases from the configured flags. The returned
// closer releases the repository and vector index connections.
func (p *pipelineConfig) build(ctx context.Context, opts buildOptions) (*usecase.UseCases, func(), error) {
	logger := logging.Default()

	repo, err := p.repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}

	index, err := p.vectorCfg.Configure(ctx)
	if err != nil {
		closeQuietly(repo.Close, "repository")
		return nil, nil, err
	}

	closer := func() {
		closeQuietly(index.Close, "vector index")
		closeQuietly(repo.Close, "repository")
	}

	extractSvc, err := p.tuningCfg.Configure()
	if err != nil {
		closer()
		return nil, nil, err
	}
	ucOpts := []usecase.Option{usecase.WithExtractService(extractSvc)}

	var aiSvc ai.Service
	if opts.needLLM {
		llmClient, err := p.llmCfg.Configure(ctx)
		if err != nil {
			closer()
			return nil, nil, err
		}
		aiSvc, err = ai.New(llmClient, ai.WithSystemPrompt(p.tuningCfg.ExtractionPrompt()))
		if err != nil {
			closer()
			return nil, nil, err
		}
	}

	if opts.needFeeds {
		feeds, err := p.feedsCfg.Configure()
		if err != nil {
			closer()
			return nil, nil, err
		}
		ucOpts = append(ucOpts, usecase.WithFeeds(feeds))
		logger.Info("Loaded feeds", "path", p.feedsCfg.Path(), "count", len(feeds))
	}

	if opts.needBatch {
		batchSvc, err := p.batchCfg.Configure(p.llmCfg.OpenAIAPIKey(),
			openaibatch.WithSystemPrompt(p.tuningCfg.ExtractionPrompt()))
		if err != nil {
			closer()
			return nil, nil, err
		}
		ucOpts = append(ucOpts, usecase.WithBatchService(batchSvc))
	}

	notionSvc, err := p.notionCfg.Configure()
	if err != nil {
		closer()
		return nil, nil, err
	}
	if notionSvc != nil {
		ucOpts = append(ucOpts, usecase.WithNotion(notionSvc))
		logger.Info("Notion mirroring enabled")
	} else {
		logger.Info("Notion not configured, idea mirroring disabled")
	}

	slackSvc, err := p.slackCfg.Configure()
	if err != nil {
		closer()
		return nil, nil, err
	}
	if slackSvc != nil {
		ucOpts = append(ucOpts, usecase.WithSlack(slackSvc))
		logger.Info("Slack announcements enabled")
	}

	return usecase.New(repo, index, aiSvc, ucOpts...), closer, nil
}

func closeQuietly(close func() error, name string) {
	if err := close(); err != nil {
		logging.Default().Error("failed to close "+name, "error", err.Error())
	}
}

// buildRepoOnly configures just the repository, for commands that do not
// touch the vector index
func buildRepoOnly(ctx context.Context, repoCfg *config.Repository) (interfaces.Repository, func(), error) {
	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	return repo, func() { closeQuietly(repo.Close, "repository") }, nil
}
