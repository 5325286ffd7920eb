package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/utils/errutil"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Process runs the synchronous pipeline: collect new articles, extract
// ideas inline with the configured LLM, and sync them immediately.
// A synthetic batch job records the run so it shows up alongside
// asynchronous batches.
func (uc *UseCases) Process(ctx context.Context) error {
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
		logger.Warn("no article content extracted, nothing to process")
		return nil
	}

	var ideas []model.Idea
	for hash, content := range contents {
		extraction, err := uc.ai.ExtractIdeas(ctx, content)
		if err != nil {
			errutil.Handle(ctx, err, "failed to extract ideas from article, skipping")
			continue
		}

		for _, idea := range extraction.Output {
			idea.URLHash = hash
			ideas = append(ideas, idea)
		}
	}

	jobID := types.BatchID(fmt.Sprintf("gemini-%d", time.Now().Unix()))
	if _, err := uc.repo.BatchJob().Create(ctx, &model.BatchJob{
		ID:       jobID,
		Provider: types.ProviderGemini,
		Status:   types.BatchStatusCompleted,
	}); err != nil {
		return goerr.Wrap(err, "failed to record processing run", goerr.V("id", jobID))
	}

	if err := uc.Sync(ctx, ideas); err != nil {
		return err
	}

	logger.Info("processed articles", "articles", len(contents), "ideas", len(ideas))
	return nil
}
