package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/service/openaibatch"
	"github.com/urfave/cli/v3"
)

// Batch holds configuration for the OpenAI Batch API pipeline
type Batch struct {
	apiKey string
	model  string
}

// Flags returns CLI flags for batch configuration
func (b *Batch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-batch-api-key",
			Usage:       "OpenAI API key for the Batch API (falls back to --openai-api-key)",
			Sources:     cli.EnvVars("SOOCHI_OPENAI_BATCH_API_KEY"),
			Destination: &b.apiKey,
		},
		&cli.StringFlag{
			Name:        "openai-batch-model",
			Usage:       "OpenAI model used for batch idea extraction",
			Value:       "gpt-4o-mini",
			Sources:     cli.EnvVars("SOOCHI_OPENAI_BATCH_MODEL"),
			Destination: &b.model,
		},
	}
}

// Configure creates the batch service. fallbackAPIKey is used when no
// dedicated batch key is set.
func (b *Batch) Configure(fallbackAPIKey string, opts ...openaibatch.Option) (*openaibatch.Service, error) {
	apiKey := b.apiKey
	if apiKey == "" {
		apiKey = fallbackAPIKey
	}
	if apiKey == "" {
		return nil, goerr.New("an OpenAI API key is required for batch processing")
	}

	return openaibatch.New(apiKey, b.model, opts...)
}
