package config

import (
	"github.com/soochi-lab/soochi/pkg/service/notion"
	"github.com/urfave/cli/v3"
)

// Notion holds configuration for the Notion idea database
type Notion struct {
	token      string
	databaseID string
}

// Flags returns CLI flags for Notion configuration
func (n *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token for the idea database",
			Sources:     cli.EnvVars("SOOCHI_NOTION_API_TOKEN"),
			Destination: &n.token,
		},
		&cli.StringFlag{
			Name:        "notion-database-id",
			Usage:       "Notion database ID where ideas are mirrored",
			Sources:     cli.EnvVars("SOOCHI_NOTION_DATABASE_ID"),
			Destination: &n.databaseID,
		},
	}
}

// IsConfigured reports whether both token and database ID are set
func (n *Notion) IsConfigured() bool {
	return n.token != "" && n.databaseID != ""
}

// Configure creates the Notion service. Returns nil when Notion is not
// configured; idea mirroring is then disabled.
func (n *Notion) Configure() (notion.Service, error) {
	if !n.IsConfigured() {
		return nil, nil
	}
	return notion.New(n.token, n.databaseID)
}
