package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/soochi-lab/soochi/pkg/domain/model"
)

// Service extracts ideas from article content and embeds them
type Service interface {
	ExtractIdeas(ctx context.Context, content string) (*model.ExtractionResponse, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type client struct {
	llmClient gollem.LLMClient
	prompt    string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithSystemPrompt overrides the built-in extraction prompt
func WithSystemPrompt(prompt string) Option {
	return func(c *client) {
		if prompt != "" {
			c.prompt = prompt
		}
	}
}

// New creates an idea extraction service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		prompt:    SystemPrompt,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ExtractIdeas asks the LLM for the ideas discussed in one article
func (c *client) ExtractIdeas(ctx context.Context, content string) (*model.ExtractionResponse, error) {
	if strings.TrimSpace(content) == "" {
		return &model.ExtractionResponse{}, nil
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(c.prompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(content)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty response from LLM")
	}

	var extraction model.ExtractionResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &extraction); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}

	return &extraction, nil
}

// Embed generates the embedding vector used for idea similarity checks
func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}
	if len(embeddings[0]) != model.EmbeddingDimension {
		return nil, goerr.New("embedding dimension mismatch",
			goerr.V("model", model.EmbeddingModel),
			goerr.V("want", model.EmbeddingDimension),
			goerr.V("got", len(embeddings[0])))
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}
	return result, nil
}

func buildUserPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString("## Article Content:\n\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "IdeaExtractionResponse",
		Description: "Ideas extracted from the article content",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"endReason": {
				Type:        gollem.TypeString,
				Description: "Why extraction stopped, e.g. all ideas found or no ideas present",
			},
			"output": {
				Type:        gollem.TypeArray,
				Description: "List of distinct ideas found in the article",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"title": {
							Type:        gollem.TypeString,
							Description: "A short, specific name for the idea",
							Required:    true,
						},
						"type": {
							Type:        gollem.TypeString,
							Description: "One of: SaaS, Startup, Open-Source, General-Project",
							Enum:        []string{"SaaS", "Startup", "Open-Source", "General-Project"},
							Required:    true,
						},
						"problemStatement": {
							Type:        gollem.TypeString,
							Description: "The problem the idea addresses",
							Required:    true,
						},
						"solution": {
							Type:        gollem.TypeString,
							Description: "How the idea solves the problem",
							Required:    true,
						},
						"targetAudience": {
							Type:        gollem.TypeString,
							Description: "Who would use or benefit from the idea",
							Required:    true,
						},
						"innovationScore": {
							Type:        gollem.TypeNumber,
							Description: "Novelty of the idea from 0 to 10",
							Required:    true,
						},
						"potentialApplications": {
							Type:        gollem.TypeString,
							Description: "Where the idea could be applied",
						},
						"prerequisites": {
							Type:        gollem.TypeString,
							Description: "Skills or resources needed to build the idea",
						},
						"additionalNotes": {
							Type:        gollem.TypeString,
							Description: "Anything else worth recording about the idea",
						},
					},
				},
			},
		},
	}
}
