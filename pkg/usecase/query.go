package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
)

// ListBatchJobs returns recorded batch jobs, newest first
func (uc *UseCases) ListBatchJobs(ctx context.Context, limit int) ([]*model.BatchJob, error) {
	jobs, err := uc.repo.BatchJob().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list batch jobs")
	}
	return jobs, nil
}

// ListBatchJobsByStatus returns recorded batch jobs in the given
// lifecycle state, newest first
func (uc *UseCases) ListBatchJobsByStatus(ctx context.Context, status types.BatchStatus, limit int) ([]*model.BatchJob, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	jobs, err := uc.repo.BatchJob().ListByStatus(ctx, status, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list batch jobs by status",
			goerr.V("status", status))
	}
	return jobs, nil
}

// CountSeenURLs returns the number of URLs currently tracked as seen
func (uc *UseCases) CountSeenURLs(ctx context.Context) (int, error) {
	count, err := uc.repo.SeenURL().Count(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count seen URLs")
	}
	return count, nil
}
