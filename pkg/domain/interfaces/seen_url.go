package interfaces

import (
	"context"
	"time"

	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
)

// SeenURLRepository defines the interface for seen-URL persistence
type SeenURLRepository interface {
	// ListHashes retrieves all recorded URL hashes
	ListHashes(ctx context.Context) ([]types.URLHash, error)

	// PutAll stores seen URLs in bulk (upsert). Re-inserting an existing
	// hash is not an error; the run must survive partial overlap.
	PutAll(ctx context.Context, urls []*model.SeenURL) error

	// Get retrieves a seen URL by its hash.
	// Returns ErrNotFound if the hash is unknown.
	Get(ctx context.Context, hash types.URLHash) (*model.SeenURL, error)

	// Count returns the number of recorded seen URLs
	Count(ctx context.Context) (int, error)

	// Prune deletes seen URLs created before the given time.
	// Returns the number of deleted records.
	Prune(ctx context.Context, before time.Time) (int, error)
}
