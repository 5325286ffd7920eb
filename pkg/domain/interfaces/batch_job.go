package interfaces

import (
	"context"

	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
)

// BatchJobRepository defines the interface for batch job tracking
type BatchJobRepository interface {
	// Create records a newly submitted batch job
	Create(ctx context.Context, job *model.BatchJob) (*model.BatchJob, error)

	// Latest retrieves the most recently created batch job.
	// Returns nil, nil when no batch job has ever been recorded.
	Latest(ctx context.Context) (*model.BatchJob, error)

	// UpdateStatus updates the status of an existing batch job
	UpdateStatus(ctx context.Context, id types.BatchID, status types.BatchStatus) error

	// List retrieves batch jobs ordered by CreatedAt descending
	List(ctx context.Context, limit int) ([]*model.BatchJob, error)

	// ListByStatus retrieves batch jobs with the given status,
	// ordered by CreatedAt descending
	ListByStatus(ctx context.Context, status types.BatchStatus, limit int) ([]*model.BatchJob, error)
}
