package config

import (
	"github.com/soochi-lab/soochi/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for new-idea announcements
type Slack struct {
	botToken  string
	channelID string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for idea announcements",
			Sources:     cli.EnvVars("SOOCHI_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel that receives new-idea announcements",
			Sources:     cli.EnvVars("SOOCHI_SLACK_CHANNEL_ID"),
			Destination: &s.channelID,
		},
	}
}

// IsConfigured reports whether both token and channel are set
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channelID != ""
}

// Configure creates the Slack service. Returns nil when Slack is not
// configured; announcements are then disabled.
func (s *Slack) Configure() (slack.Service, error) {
	if !s.IsConfigured() {
		return nil, nil
	}
	return slack.New(s.botToken, s.channelID)
}
