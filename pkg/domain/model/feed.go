package model

import "github.com/m-mizutani/goerr/v2"

// Feed is a configured RSS source
type Feed struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// Validate checks if the Feed is usable
func (f *Feed) Validate() error {
	if f.Name == "" {
		return goerr.New("feed name is required")
	}
	if f.URL == "" {
		return goerr.New("feed URL is required", goerr.V("name", f.Name))
	}
	return nil
}
