package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Subscribe checks the most recent batch job and, when it has completed,
// syncs the extracted ideas and marks the job done. A still-running batch
// leaves the job untouched for the next subscribe run.
func (uc *UseCases) Subscribe(ctx context.Context) error {
	if uc.batchSvc == nil {
		return goerr.New("batch service is not configured")
	}
	logger := logging.From(ctx)

	job, err := uc.repo.BatchJob().Latest(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load latest batch job")
	}
	if job == nil {
		logger.Warn("no batch jobs found")
		return nil
	}
	if job.Provider != types.ProviderOpenAI {
		logger.Info("latest batch job is not an OpenAI batch, nothing to do",
			"id", job.ID, "provider", job.Provider)
		return nil
	}
	if job.Status != types.BatchStatusPending {
		logger.Info("latest batch job already processed", "id", job.ID, "status", job.Status)
		return nil
	}

	status, outputFileID, err := uc.batchSvc.Status(ctx, job.ID)
	if err != nil {
		return err
	}

	switch status {
	case types.BatchStatusCompleted:
		ideas, err := uc.batchSvc.FetchResults(ctx, outputFileID)
		if err != nil {
			return err
		}
		logger.Info("batch completed", "id", job.ID, "ideas", len(ideas))

		if err := uc.Sync(ctx, ideas); err != nil {
			return err
		}
		return uc.repo.BatchJob().UpdateStatus(ctx, job.ID, types.BatchStatusCompleted)

	case types.BatchStatusFailed:
		logger.Error("batch job failed", "id", job.ID)
		return uc.repo.BatchJob().UpdateStatus(ctx, job.ID, types.BatchStatusFailed)

	default:
		logger.Info("batch job still running", "id", job.ID)
		return nil
	}
}
