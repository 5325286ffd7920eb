package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	"github.com/soochi-lab/soochi/pkg/domain/model"
)

type point struct {
	vector []float32
	idea   model.Idea
	count  int64
}

// Index is an in-memory VectorIndex with an exact cosine similarity scan.
// It is used for tests and local runs without a Qdrant server.
type Index struct {
	mu     sync.RWMutex
	points map[string]*point
}

var _ interfaces.VectorIndex = &Index{}

func New() *Index {
	return &Index{
		points: make(map[string]*point),
	}
}

func (x *Index) EnsureCollection(ctx context.Context) error {
	return nil
}

func (x *Index) Search(ctx context.Context, vector []float32, topK int) ([]interfaces.Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	matches := make([]interfaces.Match, 0, len(x.points))
	for id, p := range x.points {
		matches = append(matches, interfaces.Match{
			ID:    id,
			Score: cosine(vector, p.vector),
			Idea:  p.idea,
			Count: p.count,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (x *Index) Upsert(ctx context.Context, idea *model.Idea) error {
	if len(idea.Embedding) == 0 {
		return goerr.New("idea has no embedding", goerr.V("title", idea.Title))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	vec := make([]float32, len(idea.Embedding))
	copy(vec, idea.Embedding)

	stored := *idea
	stored.Embedding = nil
	x.points[idea.PointID()] = &point{
		vector: vec,
		idea:   stored,
		count:  1,
	}
	return nil
}

func (x *Index) SetCount(ctx context.Context, id string, count int64) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	p, exists := x.points[id]
	if !exists {
		return goerr.New("point not found", goerr.V("id", id))
	}
	p.count = count
	return nil
}

func (x *Index) Close() error {
	return nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
