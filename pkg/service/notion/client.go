package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Notion caps a single rich_text content block at 2000 characters
const maxRichTextLength = 2000

// property names in the idea database
const (
	propTitle                 = "Title"
	propType                  = "Type"
	propProblemStatement      = "Problem Statement"
	propSolution              = "Solution"
	propTargetAudience        = "Target Audience"
	propInnovationScore       = "Innovation Score"
	propPotentialApplications = "Potential Applications"
	propPrerequisites         = "Prerequisites"
	propAdditionalNotes       = "Additional Notes"
	propCount                 = "Count"
	propSourceURL             = "Source URL"
	propSourceTitle           = "Source Title"
	propProcessedDate         = "Processed Date"
)

// Service mirrors ideas into a Notion database
type Service interface {
	FindIdea(ctx context.Context, title string) (*notionapi.Page, error)
	CreateIdea(ctx context.Context, idea *model.Idea, source *model.SeenURL) error
	UpdateCount(ctx context.Context, title string, count int64) (bool, error)
	Check(ctx context.Context) error
}

type client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
}

// New creates a Notion service for the given integration token and
// idea database ID
func New(token, databaseID string) (Service, error) {
	if token == "" {
		return nil, goerr.New("notion token is required")
	}
	if databaseID == "" {
		return nil, goerr.New("notion database ID is required")
	}

	return &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
		databaseID: notionapi.DatabaseID(databaseID),
	}, nil
}

// FindIdea looks up an idea page by exact title. Returns nil when the
// idea has no page yet.
func (c *client) FindIdea(ctx context.Context, title string) (*notionapi.Page, error) {
	resp, err := c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: propTitle,
			RichText: &notionapi.TextFilterCondition{
				Equals: title,
			},
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query notion database", goerr.V("title", title))
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

// CreateIdea creates a page for a new idea. Source metadata is optional;
// when present the page records where and when the idea was found.
func (c *client) CreateIdea(ctx context.Context, idea *model.Idea, source *model.SeenURL) error {
	properties := notionapi.Properties{
		propTitle:                 titleProperty(idea.Title),
		propCount:                 numberProperty(1),
		propType:                  richTextProperty(string(idea.Type)),
		propProblemStatement:      richTextProperty(idea.ProblemStatement),
		propSolution:              richTextProperty(idea.Solution),
		propTargetAudience:        richTextProperty(idea.TargetAudience),
		propInnovationScore:       numberProperty(idea.InnovationScore),
		propPotentialApplications: richTextProperty(idea.PotentialApplications),
		propPrerequisites:         richTextProperty(idea.Prerequisites),
		propAdditionalNotes:       richTextProperty(idea.AdditionalNotes),
	}

	if source != nil {
		if source.URL != "" {
			properties[propSourceURL] = &notionapi.URLProperty{
				Type: notionapi.PropertyTypeURL,
				URL:  source.URL,
			}
		}
		if source.Title != "" {
			properties[propSourceTitle] = richTextProperty(source.Title)
		}
		if !source.CreatedAt.IsZero() {
			properties[propProcessedDate] = dateProperty(source.CreatedAt)
		}
	}

	logging.From(ctx).Info("creating idea in notion", "title", idea.Title)

	_, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.databaseID,
		},
		Properties: properties,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create notion page", goerr.V("title", idea.Title))
	}
	return nil
}

// UpdateCount sets the Count property of an existing idea page.
// Returns false when the idea has no page to update.
func (c *client) UpdateCount(ctx context.Context, title string, count int64) (bool, error) {
	page, err := c.FindIdea(ctx, title)
	if err != nil {
		return false, err
	}
	if page == nil {
		logging.From(ctx).Warn("idea not found in notion for count update", "title", title)
		return false, nil
	}

	_, err = c.api.Page.Update(ctx, notionapi.PageID(page.ID), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			propCount: numberProperty(float64(count)),
		},
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to update idea count",
			goerr.V("title", title), goerr.V("count", count))
	}
	return true, nil
}

// Check verifies the database is reachable with the configured token
func (c *client) Check(ctx context.Context) error {
	if _, err := c.api.Database.Get(ctx, c.databaseID); err != nil {
		return goerr.Wrap(err, "failed to access notion database", goerr.V("databaseID", c.databaseID))
	}
	return nil
}

func truncate(s string) string {
	if len(s) <= maxRichTextLength {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRichTextLength {
		return s
	}
	return string(runes[:maxRichTextLength])
}

func titleProperty(s string) *notionapi.TitleProperty {
	return &notionapi.TitleProperty{
		Type: notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{
			{Text: &notionapi.Text{Content: truncate(s)}},
		},
	}
}

func richTextProperty(s string) *notionapi.RichTextProperty {
	return &notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Text: &notionapi.Text{Content: truncate(s)}},
		},
	}
}

func numberProperty(n float64) *notionapi.NumberProperty {
	return &notionapi.NumberProperty{
		Type:   notionapi.PropertyTypeNumber,
		Number: n,
	}
}

func dateProperty(t time.Time) *notionapi.DateProperty {
	d := notionapi.Date(t)
	return &notionapi.DateProperty{
		Type: notionapi.PropertyTypeDate,
		Date: &notionapi.DateObject{
			Start: &d,
		},
	}
}
