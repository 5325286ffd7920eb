package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Publish collects new articles and submits them to the OpenAI Batch API
// for asynchronous idea extraction. The created batch job is recorded so
// Subscribe can pick up the results later.
func (uc *UseCases) Publish(ctx context.Context) error {
	if uc.batchSvc == nil {
		return goerr.New("batch service is not configured")
	}
	logger := logging.From(ctx)

	articles, err := uc.collectArticles(ctx)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return nil
	}

	contents, err := uc.extract.FetchAll(ctx, articles)
	if err != nil {
		return err
	}
	if len(contents) == 0 {
		logger.Warn("no article content extracted, nothing to publish")
		return nil
	}

	tasks, err := uc.batchSvc.BuildTasks(contents)
	if err != nil {
		return err
	}

	batchID, err := uc.batchSvc.Submit(ctx, tasks)
	if err != nil {
		return err
	}

	if _, err := uc.repo.BatchJob().Create(ctx, &model.BatchJob{
		ID:       batchID,
		Provider: types.ProviderOpenAI,
	}); err != nil {
		return goerr.Wrap(err, "failed to record batch job", goerr.V("id", batchID))
	}

	logger.Info("submitted batch job", "id", batchID, "articles", len(contents))
	return nil
}
