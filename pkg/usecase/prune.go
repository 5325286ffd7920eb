package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Prune removes seen URL records older than the retention window.
// Pruned URLs may be processed again if they reappear in a feed.
func (uc *UseCases) Prune(ctx context.Context) error {
	before := time.Now().Add(-model.SeenURLRetention).UTC()

	deleted, err := uc.repo.SeenURL().Prune(ctx, before)
	if err != nil {
		return goerr.Wrap(err, "failed to prune seen URLs", goerr.V("before", before))
	}

	logging.From(ctx).Info("pruned seen URLs", "deleted", deleted, "before", before)
	return nil
}
