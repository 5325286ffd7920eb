package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/soochi-lab/soochi/pkg/domain/model"
)

// Service announces newly discovered ideas to a Slack channel
type Service interface {
	// AnnounceIdea posts a Block Kit message for a new idea and returns
	// the message timestamp
	AnnounceIdea(ctx context.Context, idea *model.Idea, source *model.SeenURL) (string, error)
}

type client struct {
	api       *slack.Client
	channelID string
}

// New creates a Slack service with the provided bot token and target channel
func New(token, channelID string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &client{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

func (c *client) AnnounceIdea(ctx context.Context, idea *model.Idea, source *model.SeenURL) (string, error) {
	blocks := buildIdeaBlocks(idea, source)
	fallback := fmt.Sprintf("New idea: %s", idea.Title)

	_, ts, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post idea to Slack",
			goerr.V("channelID", c.channelID), goerr.V("title", idea.Title))
	}
	return ts, nil
}

func buildIdeaBlocks(idea *model.Idea, source *model.SeenURL) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("New idea: %s", idea.Title), false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Type:* %s\n*Innovation score:* %.0f/10", idea.Type, idea.InnovationScore),
				false, false),
			nil, nil,
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Problem:* %s\n*Solution:* %s", idea.ProblemStatement, idea.Solution),
				false, false),
			nil, nil,
		),
	}

	if source != nil && source.URL != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("Source: <%s|%s>", source.URL, source.Title), false, false),
		))
	}

	return blocks
}
