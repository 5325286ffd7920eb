package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/interfaces"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/utils/errutil"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Sync merges extracted ideas into the vector index and mirrors them to
// Notion. An idea similar to an existing one bumps that idea's count
// instead of creating a new entry. Failures on a single idea are logged
// and the rest of the batch continues.
func (uc *UseCases) Sync(ctx context.Context, ideas []model.Idea) error {
	logger := logging.From(ctx)
	logger.Info("syncing ideas", "count", len(ideas))

	for _, idea := range ideas {
		if err := uc.syncIdea(ctx, &idea); err != nil {
			errutil.Handle(ctx, err, "failed to sync idea, skipping")
		}
	}
	return nil
}

func (uc *UseCases) syncIdea(ctx context.Context, idea *model.Idea) error {
	logger := logging.From(ctx)

	if err := idea.Validate(); err != nil {
		return err
	}

	embedding, err := uc.ai.Embed(ctx, idea.EmbeddingText())
	if err != nil {
		return goerr.Wrap(err, "failed to embed idea", goerr.V("title", idea.Title))
	}
	idea.Embedding = embedding

	matches, err := uc.vector.Search(ctx, embedding, model.SimilarityTopK)
	if err != nil {
		return goerr.Wrap(err, "failed to search for similar ideas", goerr.V("title", idea.Title))
	}

	if match := bestMatch(matches); match != nil {
		return uc.mergeIdea(ctx, idea, match)
	}

	logger.Debug("adding new idea", "title", idea.Title)
	return uc.addIdea(ctx, idea)
}

// bestMatch returns the highest scoring match above the similarity
// threshold, or nil when none qualifies
func bestMatch(matches []interfaces.Match) *interfaces.Match {
	var best *interfaces.Match
	for i := range matches {
		if matches[i].Score <= model.SimilarityThreshold {
			continue
		}
		if best == nil || matches[i].Score > best.Score {
			best = &matches[i]
		}
	}
	return best
}

func (uc *UseCases) mergeIdea(ctx context.Context, idea *model.Idea, match *interfaces.Match) error {
	logger := logging.From(ctx)
	logger.Info("found similar idea",
		"title", idea.Title, "existing", match.Idea.Title, "score", match.Score)

	newCount := match.Count + 1
	if err := uc.vector.SetCount(ctx, match.ID, newCount); err != nil {
		return goerr.Wrap(err, "failed to bump idea count",
			goerr.V("id", match.ID), goerr.V("count", newCount))
	}

	if uc.notion != nil {
		updated, err := uc.notion.UpdateCount(ctx, match.Idea.Title, newCount)
		if err != nil {
			return goerr.Wrap(err, "failed to update idea count in notion",
				goerr.V("title", match.Idea.Title))
		}
		if !updated {
			logger.Warn("notion page missing for merged idea", "title", match.Idea.Title)
		}
	}
	return nil
}

func (uc *UseCases) addIdea(ctx context.Context, idea *model.Idea) error {
	if err := uc.vector.Upsert(ctx, idea); err != nil {
		return goerr.Wrap(err, "failed to store idea vector", goerr.V("title", idea.Title))
	}

	source := uc.lookupSource(ctx, idea)

	if uc.notion != nil {
		if err := uc.notion.CreateIdea(ctx, idea, source); err != nil {
			return goerr.Wrap(err, "failed to create idea in notion", goerr.V("title", idea.Title))
		}
	}

	if uc.slack != nil {
		if _, err := uc.slack.AnnounceIdea(ctx, idea, source); err != nil {
			errutil.Handle(ctx, err, "failed to announce idea to Slack")
		}
	}
	return nil
}

// lookupSource resolves the article an idea came from. Missing metadata
// is not an error; the idea is still stored without source fields.
func (uc *UseCases) lookupSource(ctx context.Context, idea *model.Idea) *model.SeenURL {
	if idea.URLHash == "" {
		return nil
	}

	source, err := uc.repo.SeenURL().Get(ctx, idea.URLHash)
	if err != nil {
		logging.From(ctx).Warn("source metadata not found for idea",
			"title", idea.Title, "hash", idea.URLHash)
		return nil
	}
	return source
}
