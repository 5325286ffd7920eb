package config

import (
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/soochi-lab/soochi/pkg/service/extract"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Tuning holds the path to an optional TOML file adjusting pipeline
// behavior that does not warrant its own CLI flag
type Tuning struct {
	path   string
	prompt string
}

// tuningFile is the TOML layout of the tuning file
type tuningFile struct {
	Extract struct {
		Concurrency    int `toml:"concurrency"`
		RateIntervalMS int `toml:"rate_interval_ms"`
		RateBurst      int `toml:"rate_burst"`
		TimeoutSec     int `toml:"timeout_sec"`
	} `toml:"extract"`
	Prompt struct {
		Extraction string `toml:"extraction"`
	} `toml:"prompt"`
}

// Flags returns CLI flags for tuning configuration
func (t *Tuning) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tuning",
			Usage:       "Path to a TOML file with pipeline tuning (optional)",
			Sources:     cli.EnvVars("SOOCHI_TUNING"),
			Destination: &t.path,
		},
	}
}

// Configure builds the article extraction service, applying the tuning
// file when one is given
func (t *Tuning) Configure() (*extract.Service, error) {
	if t.path == "" {
		return extract.New(), nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tuning file", goerr.V("path", t.path))
	}

	var parsed tuningFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse tuning file", goerr.V("path", t.path))
	}
	t.prompt = parsed.Prompt.Extraction

	var opts []extract.Option
	if parsed.Extract.Concurrency > 0 {
		opts = append(opts, extract.WithConcurrency(parsed.Extract.Concurrency))
	}
	if parsed.Extract.RateIntervalMS > 0 {
		burst := parsed.Extract.RateBurst
		if burst <= 0 {
			burst = 1
		}
		interval := time.Duration(parsed.Extract.RateIntervalMS) * time.Millisecond
		opts = append(opts, extract.WithRateLimit(rate.NewLimiter(rate.Every(interval), burst)))
	}
	if parsed.Extract.TimeoutSec > 0 {
		opts = append(opts, extract.WithHTTPClient(&http.Client{
			Timeout: time.Duration(parsed.Extract.TimeoutSec) * time.Second,
		}))
	}

	return extract.New(opts...), nil
}

// ExtractionPrompt returns the prompt override loaded by Configure, or
// empty when the built-in prompt should be used
func (t *Tuning) ExtractionPrompt() string {
	return t.prompt
}
