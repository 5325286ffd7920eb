package interfaces

import (
	"context"

	"github.com/soochi-lab/soochi/pkg/domain/model"
)

// Match is a similarity search hit from the vector index
type Match struct {
	ID    string
	Score float32
	Idea  model.Idea
	Count int64
}

// VectorIndex defines the interface for idea vector storage and
// similarity search
type VectorIndex interface {
	// EnsureCollection creates the idea collection if it does not exist yet
	// (cosine distance, model.EmbeddingDimension)
	EnsureCollection(ctx context.Context) error

	// Search returns the topK nearest ideas to the given vector,
	// ordered by score descending
	Search(ctx context.Context, vector []float32, topK int) ([]Match, error)

	// Upsert stores an idea with count=1. The point ID is derived from the
	// idea title, so upserting the same title twice overwrites the point.
	Upsert(ctx context.Context, idea *model.Idea) error

	// SetCount updates the duplicate count on an existing point
	SetCount(ctx context.Context, id string, count int64) error

	// Close releases resources held by the index client
	Close() error
}
