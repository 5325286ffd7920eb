package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Feeds holds the path to the RSS feed configuration file
type Feeds struct {
	path string
}

// feedsFile is the YAML layout of the feed configuration
type feedsFile struct {
	Feeds []model.Feed `yaml:"feeds"`
}

// Flags returns CLI flags for feed configuration
func (f *Feeds) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "feeds",
			Usage:       "Path to the YAML file listing RSS feeds",
			Value:       "feeds.yaml",
			Sources:     cli.EnvVars("SOOCHI_FEEDS"),
			Destination: &f.path,
		},
	}
}

// Path returns the configured feeds file path
func (f *Feeds) Path() string {
	return f.path
}

// Configure loads and validates the feed list
func (f *Feeds) Configure() ([]model.Feed, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read feeds file", goerr.V("path", f.path))
	}

	var parsed feedsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse feeds file", goerr.V("path", f.path))
	}
	if len(parsed.Feeds) == 0 {
		return nil, goerr.New("feeds file lists no feeds", goerr.V("path", f.path))
	}

	names := make(map[string]bool, len(parsed.Feeds))
	for _, feed := range parsed.Feeds {
		if err := feed.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid feed", goerr.V("path", f.path))
		}
		if names[feed.Name] {
			return nil, goerr.New("duplicate feed name",
				goerr.V("path", f.path), goerr.V("name", feed.Name))
		}
		names[feed.Name] = true
	}

	return parsed.Feeds, nil
}
