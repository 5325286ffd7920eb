package extract

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/utils/logging"
	"github.com/soochi-lab/soochi/pkg/utils/safe"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultConcurrency = 4
	defaultCacheTTL    = time.Hour
	maxContentLength   = 50000
	userAgent          = "Mozilla/5.0 (compatible; soochi/1.0; +https://github.com/soochi-lab/soochi)"
)

// containers likely to hold the article body, checked in order
var contentSelectors = []string{"article", "main", "[role=main]", ".post-content", ".article-body", ".entry-content"}

// elements stripped before text extraction
const noiseSelector = "script, style, noscript, nav, header, footer, aside, form, iframe"

type cacheEntry struct {
	content   string
	fetchedAt time.Time
}

// Service fetches article pages and extracts readable text
type Service struct {
	client      *http.Client
	limiter     *rate.Limiter
	concurrency int
	ttl         time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type Option func(*Service)

// WithHTTPClient replaces the HTTP client used for article fetches
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithRateLimit overrides the request rate limit against article hosts
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(s *Service) {
		s.limiter = limiter
	}
}

// WithConcurrency sets the number of parallel article fetches
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		client:      &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
		concurrency: defaultConcurrency,
		ttl:         defaultCacheTTL,
		cache:       make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads one article and returns its extracted text.
// Results are cached so a URL appearing in multiple feeds within the
// cache TTL is downloaded once.
func (s *Service) Fetch(ctx context.Context, articleURL string) (string, error) {
	if content, ok := s.cached(articleURL); ok {
		return content, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", goerr.Wrap(err, "rate limiter interrupted")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build article request", goerr.V("url", articleURL))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch article", goerr.V("url", articleURL))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status from article",
			goerr.V("url", articleURL), goerr.V("status", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse article HTML", goerr.V("url", articleURL))
	}

	content := extractText(doc)
	if content == "" {
		return "", goerr.New("no readable content in article", goerr.V("url", articleURL))
	}

	s.store(articleURL, content)
	return content, nil
}

// FetchAll downloads articles in parallel and returns the extracted text
// keyed by URL hash. Articles that fail to download or yield no content
// are logged and left out of the result.
func (s *Service) FetchAll(ctx context.Context, articles []*model.SeenURL) (map[types.URLHash]string, error) {
	logger := logging.From(ctx)

	var mu sync.Mutex
	contents := make(map[types.URLHash]string, len(articles))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)

	for _, article := range articles {
		eg.Go(func() error {
			content, err := s.Fetch(ctx, article.URL)
			if err != nil {
				logger.Warn("failed to extract article, skipping",
					"url", article.URL, "error", err)
				return nil
			}

			mu.Lock()
			contents[article.URLHash] = content
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "article extraction aborted")
	}
	return contents, nil
}

func (s *Service) cached(articleURL string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[articleURL]
	if !ok || time.Since(entry.fetchedAt) > s.ttl {
		return "", false
	}
	return entry.content, true
}

func (s *Service) store(articleURL, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[articleURL] = cacheEntry{content: content, fetchedAt: time.Now()}
}

func extractText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := normalize(sel.Text()); text != "" {
				return text
			}
		}
	}
	return normalize(doc.Find("body").Text())
}

func normalize(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, strings.Join(strings.Fields(trimmed), " "))
		}
	}

	joined := strings.Join(kept, "\n")
	if len(joined) <= maxContentLength {
		return joined
	}
	runes := []rune(joined)
	if len(runes) <= maxContentLength {
		return joined
	}
	return string(runes[:maxContentLength])
}
