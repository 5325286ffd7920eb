package usecase_test

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/repository/memory"
	vectormem "github.com/soochi-lab/soochi/pkg/repository/vector/memory"
	"github.com/soochi-lab/soochi/pkg/usecase"
)

// mockAIService returns canned extractions and deterministic embeddings
type mockAIService struct {
	extractFn func(ctx context.Context, content string) (*model.ExtractionResponse, error)
	embedFn   func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockAIService) ExtractIdeas(ctx context.Context, content string) (*model.ExtractionResponse, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, content)
	}
	return &model.ExtractionResponse{}, nil
}

func (m *mockAIService) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

// mockNotionService records calls instead of talking to the Notion API
type mockNotionService struct {
	created      []string
	countUpdates map[string]int64
	findResult   *notionapi.Page
}

func (m *mockNotionService) FindIdea(ctx context.Context, title string) (*notionapi.Page, error) {
	return m.findResult, nil
}

func (m *mockNotionService) CreateIdea(ctx context.Context, idea *model.Idea, source *model.SeenURL) error {
	m.created = append(m.created, idea.Title)
	return nil
}

func (m *mockNotionService) UpdateCount(ctx context.Context, title string, count int64) (bool, error) {
	if m.countUpdates == nil {
		m.countUpdates = make(map[string]int64)
	}
	m.countUpdates[title] = count
	return true, nil
}

func (m *mockNotionService) Check(ctx context.Context) error {
	return nil
}

func newIdea(title string) model.Idea {
	return model.Idea{
		Title:            title,
		Type:             model.IdeaTypeSaaS,
		ProblemStatement: "problem for " + title,
		Solution:         "solution for " + title,
		TargetAudience:   "developers",
		InnovationScore:  6,
	}
}

func TestSyncAddsNewIdea(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	index := vectormem.New()
	notionMock := &mockNotionService{}

	uc := usecase.New(repo, index, &mockAIService{}, usecase.WithNotion(notionMock))

	gt.NoError(t, uc.Sync(ctx, []model.Idea{newIdea("Fresh Idea")}))

	matches, err := index.Search(ctx, []float32{1, 0, 0}, 5)
	gt.NoError(t, err).Required()
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Idea.Title, "Fresh Idea")
	gt.Equal(t, matches[0].Count, int64(1))

	gt.A(t, notionMock.created).Length(1)
	gt.Equal(t, notionMock.created[0], "Fresh Idea")
}

func TestSyncMergesSimilarIdea(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	index := vectormem.New()
	notionMock := &mockNotionService{}

	// identical embeddings make the second idea an exact match
	ai := &mockAIService{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return []float32{0.6, 0.8, 0}, nil
		},
	}

	uc := usecase.New(repo, index, ai, usecase.WithNotion(notionMock))

	gt.NoError(t, uc.Sync(ctx, []model.Idea{newIdea("Original Idea")}))
	gt.NoError(t, uc.Sync(ctx, []model.Idea{newIdea("Restated Idea")}))

	matches, err := index.Search(ctx, []float32{0.6, 0.8, 0}, 5)
	gt.NoError(t, err).Required()
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Idea.Title, "Original Idea")
	gt.Equal(t, matches[0].Count, int64(2))

	gt.A(t, notionMock.created).Length(1)
	gt.Equal(t, notionMock.countUpdates["Original Idea"], int64(2))
}

func TestSyncKeepsDissimilarIdeasApart(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	index := vectormem.New()

	vectors := map[string][]float32{
		"problem for First Idea_solution for First Idea":   {1, 0, 0},
		"problem for Second Idea_solution for Second Idea": {0, 1, 0},
	}
	ai := &mockAIService{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return vectors[text], nil
		},
	}

	uc := usecase.New(repo, index, ai)

	gt.NoError(t, uc.Sync(ctx, []model.Idea{newIdea("First Idea"), newIdea("Second Idea")}))

	matches, err := index.Search(ctx, []float32{1, 0, 0}, 5)
	gt.NoError(t, err).Required()
	gt.A(t, matches).Length(2)
	gt.Equal(t, matches[0].Idea.Title, "First Idea")
}

func TestSyncSkipsInvalidIdeas(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	index := vectormem.New()

	uc := usecase.New(repo, index, &mockAIService{})

	invalid := newIdea("")
	valid := newIdea("Valid Idea")

	gt.NoError(t, uc.Sync(ctx, []model.Idea{invalid, valid}))

	matches, err := index.Search(ctx, []float32{1, 0, 0}, 5)
	gt.NoError(t, err).Required()
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Idea.Title, "Valid Idea")
}

func TestSyncSkipsEmbeddingFailures(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	index := vectormem.New()
	notionMock := &mockNotionService{}

	broken := newIdea("Broken Idea")
	valid := newIdea("Valid Idea")

	ai := &mockAIService{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			if text == broken.EmbeddingText() {
				return nil, goerr.New("embedding backend unavailable")
			}
			return []float32{1, 0, 0}, nil
		},
	}

	uc := usecase.New(repo, index, ai, usecase.WithNotion(notionMock))

	// one idea failing to embed must not abort the rest of the batch
	gt.NoError(t, uc.Sync(ctx, []model.Idea{broken, valid}))

	matches, err := index.Search(ctx, []float32{1, 0, 0}, 5)
	gt.NoError(t, err).Required()
	gt.A(t, matches).Length(1)
	gt.Equal(t, matches[0].Idea.Title, "Valid Idea")

	gt.A(t, notionMock.created).Length(1)
	gt.Equal(t, notionMock.created[0], "Valid Idea")
}

func TestSyncAttachesSourceMetadata(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	index := vectormem.New()

	var captured *model.SeenURL
	notionMock := &capturingNotionService{onCreate: func(idea *model.Idea, source *model.SeenURL) {
		captured = source
	}}

	article := &model.SeenURL{
		URLHash: types.HashURL("https://example.com/source"),
		URL:     "https://example.com/source",
		Title:   "Source Article",
	}
	gt.NoError(t, repo.SeenURL().PutAll(ctx, []*model.SeenURL{article}))

	uc := usecase.New(repo, index, &mockAIService{}, usecase.WithNotion(notionMock))

	idea := newIdea("Sourced Idea")
	idea.URLHash = article.URLHash
	gt.NoError(t, uc.Sync(ctx, []model.Idea{idea}))

	if captured == nil {
		t.Fatal("expected source metadata to be passed to notion")
	}
	gt.Equal(t, captured.URL, "https://example.com/source")
	gt.Equal(t, captured.Title, "Source Article")
}

type capturingNotionService struct {
	mockNotionService
	onCreate func(idea *model.Idea, source *model.SeenURL)
}

func (c *capturingNotionService) CreateIdea(ctx context.Context, idea *model.Idea, source *model.SeenURL) error {
	if c.onCreate != nil {
		c.onCreate(idea, source)
	}
	return c.mockNotionService.CreateIdea(ctx, idea, source)
}
