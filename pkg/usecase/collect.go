package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// collectArticles fetches all configured feeds, drops already seen URLs,
// and records the remaining ones as seen. URLs are recorded before any
// processing so a crash mid-run never processes the same article twice.
func (uc *UseCases) collectArticles(ctx context.Context) ([]*model.SeenURL, error) {
	logger := logging.From(ctx)

	hashes, err := uc.repo.SeenURL().ListHashes(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load seen URL hashes")
	}

	seen := make(map[types.URLHash]struct{}, len(hashes))
	for _, h := range hashes {
		seen[h] = struct{}{}
	}
	logger.Info("loaded seen URLs", "count", len(seen))

	articles, err := uc.feedSvc.Collect(ctx, uc.feeds, seen)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		logger.Info("no new articles to process")
		return nil, nil
	}

	if err := uc.repo.SeenURL().PutAll(ctx, articles); err != nil {
		return nil, goerr.Wrap(err, "failed to record seen URLs")
	}
	logger.Info("recorded new articles", "count", len(articles))

	return articles, nil
}
