package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
)

type seenURLRepository struct {
	mu   sync.RWMutex
	urls map[types.URLHash]*model.SeenURL
}

func newSeenURLRepository() *seenURLRepository {
	return &seenURLRepository{
		urls: make(map[types.URLHash]*model.SeenURL),
	}
}

func copySeenURL(u *model.SeenURL) *model.SeenURL {
	copied := *u
	return &copied
}

func (r *seenURLRepository) ListHashes(ctx context.Context) ([]types.URLHash, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hashes := make([]types.URLHash, 0, len(r.urls))
	for hash := range r.urls {
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func (r *seenURLRepository) PutAll(ctx context.Context, urls []*model.SeenURL) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, u := range urls {
		stored := copySeenURL(u)
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		r.urls[stored.URLHash] = stored
	}
	return nil
}

func (r *seenURLRepository) Get(ctx context.Context, hash types.URLHash) (*model.SeenURL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.urls[hash]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "seen URL not found", goerr.V("hash", hash))
	}
	return copySeenURL(u), nil
}

func (r *seenURLRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.urls), nil
}

func (r *seenURLRepository) Prune(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for hash, u := range r.urls {
		if u.CreatedAt.Before(before) {
			delete(r.urls, hash)
			deleted++
		}
	}
	return deleted, nil
}
