package memory_test

import (
	"context"
	"testing"

	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/repository/vector/memory"
)

func testIdea(title string, embedding []float32) *model.Idea {
	return &model.Idea{
		Title:            title,
		Type:             model.IdeaTypeSaaS,
		ProblemStatement: "finding relevant articles is slow",
		Solution:         "rank articles by embedding similarity",
		InnovationScore:  7,
		URLHash:          types.HashURL("https://example.com/" + title),
		Embedding:        embedding,
	}
}

func TestMemoryIndexSearch(t *testing.T) {
	ctx := context.Background()
	index := memory.New()

	if err := index.EnsureCollection(ctx); err != nil {
		t.Fatalf("failed to ensure collection: %v", err)
	}

	if err := index.Upsert(ctx, testIdea("exact match", []float32{1, 0, 0})); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if err := index.Upsert(ctx, testIdea("orthogonal", []float32{0, 1, 0})); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if err := index.Upsert(ctx, testIdea("close", []float32{0.9, 0.1, 0})); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	matches, err := index.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Idea.Title != "exact match" {
		t.Errorf("expected best match %q, got %q", "exact match", matches[0].Idea.Title)
	}
	if matches[0].Score < 0.999 {
		t.Errorf("expected score near 1.0, got %f", matches[0].Score)
	}
	if matches[1].Idea.Title != "close" {
		t.Errorf("expected second match %q, got %q", "close", matches[1].Idea.Title)
	}
	if matches[0].Count != 1 {
		t.Errorf("expected initial count 1, got %d", matches[0].Count)
	}
}

func TestMemoryIndexUpsertRequiresEmbedding(t *testing.T) {
	ctx := context.Background()
	index := memory.New()

	if err := index.Upsert(ctx, testIdea("no embedding", nil)); err == nil {
		t.Error("expected error for idea without embedding")
	}
}

func TestMemoryIndexSetCount(t *testing.T) {
	ctx := context.Background()
	index := memory.New()

	idea := testIdea("counted idea", []float32{0.5, 0.5, 0})
	if err := index.Upsert(ctx, idea); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	if err := index.SetCount(ctx, idea.PointID(), 4); err != nil {
		t.Fatalf("failed to set count: %v", err)
	}

	matches, err := index.Search(ctx, []float32{0.5, 0.5, 0}, 1)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Count != 4 {
		t.Errorf("expected count 4, got %d", matches[0].Count)
	}

	if err := index.SetCount(ctx, "missing-id", 2); err == nil {
		t.Error("expected error for missing point")
	}
}

func TestMemoryIndexUpsertResetsCount(t *testing.T) {
	ctx := context.Background()
	index := memory.New()

	idea := testIdea("re-upserted", []float32{1, 1, 0})
	if err := index.Upsert(ctx, idea); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if err := index.SetCount(ctx, idea.PointID(), 9); err != nil {
		t.Fatalf("failed to set count: %v", err)
	}
	if err := index.Upsert(ctx, idea); err != nil {
		t.Fatalf("failed to re-upsert: %v", err)
	}

	matches, err := index.Search(ctx, []float32{1, 1, 0}, 1)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if matches[0].Count != 1 {
		t.Errorf("expected count reset to 1, got %d", matches[0].Count)
	}
}
