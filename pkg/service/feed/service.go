package feed

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mmcdole/gofeed"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
)

// Service collects new article URLs from RSS feeds
type Service struct {
	parser *gofeed.Parser
}

type Option func(*Service)

// WithHTTPClient replaces the HTTP client used for feed fetches
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.parser.Client = client
	}
}

func New(opts ...Option) *Service {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}

	s := &Service{parser: parser}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect fetches all enabled feeds and returns articles not yet seen.
// A feed that fails to fetch or parse is logged and skipped so one broken
// feed does not abort the whole run. Duplicates within the run and URLs
// already present in seen are dropped.
func (s *Service) Collect(ctx context.Context, feeds []model.Feed, seen map[types.URLHash]struct{}) ([]*model.SeenURL, error) {
	logger := logging.From(ctx)

	var collected []*model.SeenURL
	inRun := map[types.URLHash]struct{}{}

	for _, feed := range feeds {
		if !feed.Enabled {
			continue
		}
		if err := feed.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid feed", goerr.V("name", feed.Name))
		}

		parsed, err := s.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			logger.Warn("failed to fetch feed, skipping",
				"name", feed.Name, "url", feed.URL, "error", err)
			continue
		}

		fresh := 0
		for _, item := range parsed.Items {
			if item.Link == "" {
				continue
			}

			articleURL, ok := unwrapURL(item.Link)
			if !ok {
				logger.Warn("entry link carries no url parameter, skipping",
					"name", feed.Name, "link", item.Link)
				continue
			}
			hash := types.HashURL(articleURL)

			if _, ok := seen[hash]; ok {
				continue
			}
			if _, ok := inRun[hash]; ok {
				continue
			}
			inRun[hash] = struct{}{}

			collected = append(collected, &model.SeenURL{
				URLHash: hash,
				URL:     articleURL,
				Title:   item.Title,
			})
			fresh++
		}

		logger.Info("collected feed",
			"name", feed.Name, "items", len(parsed.Items), "new", fresh)
	}

	return collected, nil
}

// unwrapURL resolves aggregator redirect links of the form
// https://aggregator/redirect?url=<real> to the real article URL.
// Entry links without a url parameter are invalid.
func unwrapURL(link string) (string, bool) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	real := parsed.Query().Get("url")
	if real == "" {
		return "", false
	}
	return real, true
}
