package feed_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/service/feed"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    %s
  </channel>
</rss>`

func rssItem(title, link string) string {
	return fmt.Sprintf("<item><title>%s</title><link>%s</link></item>", title, link)
}

// wrapped builds an aggregator redirect link around the article URL
func wrapped(articleURL string) string {
	return "https://alerts.example.com/redirect?url=" + articleURL
}

func serveRSS(t *testing.T, items ...string) *httptest.Server {
	t.Helper()
	body := ""
	for _, item := range items {
		body += item
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, rssTemplate, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	srv := serveRSS(t,
		rssItem("First Article", wrapped("https://example.com/articles/1")),
		rssItem("Second Article", wrapped("https://example.com/articles/2")),
	)

	svc := feed.New()
	articles, err := svc.Collect(ctx, []model.Feed{
		{Name: "test", URL: srv.URL, Enabled: true},
	}, nil)
	gt.NoError(t, err)

	gt.A(t, articles).Length(2)
	gt.Equal(t, articles[0].Title, "First Article")
	gt.Equal(t, articles[0].URL, "https://example.com/articles/1")
	gt.Equal(t, articles[0].URLHash, types.HashURL("https://example.com/articles/1"))
}

func TestCollectSkipsLinksWithoutURLParameter(t *testing.T) {
	ctx := context.Background()

	srv := serveRSS(t,
		rssItem("Direct Link", "https://example.com/articles/direct"),
		rssItem("Wrapped", wrapped("https://real.example.com/post")),
	)

	svc := feed.New()
	articles, err := svc.Collect(ctx, []model.Feed{
		{Name: "test", URL: srv.URL, Enabled: true},
	}, nil)
	gt.NoError(t, err)

	gt.A(t, articles).Length(1)
	gt.Equal(t, articles[0].URL, "https://real.example.com/post")
	gt.Equal(t, articles[0].URLHash, types.HashURL("https://real.example.com/post"))
}

func TestCollectSkipsSeenAndDuplicates(t *testing.T) {
	ctx := context.Background()

	srv := serveRSS(t,
		rssItem("Already Seen", wrapped("https://example.com/articles/seen")),
		rssItem("New Article", wrapped("https://example.com/articles/new")),
		rssItem("New Article Again", wrapped("https://example.com/articles/new")),
	)

	seen := map[types.URLHash]struct{}{
		types.HashURL("https://example.com/articles/seen"): {},
	}

	svc := feed.New()
	articles, err := svc.Collect(ctx, []model.Feed{
		{Name: "test", URL: srv.URL, Enabled: true},
	}, seen)
	gt.NoError(t, err)

	gt.A(t, articles).Length(1)
	gt.Equal(t, articles[0].URL, "https://example.com/articles/new")
}

func TestCollectSkipsDisabledFeeds(t *testing.T) {
	ctx := context.Background()

	srv := serveRSS(t, rssItem("Hidden", wrapped("https://example.com/articles/hidden")))

	svc := feed.New()
	articles, err := svc.Collect(ctx, []model.Feed{
		{Name: "disabled", URL: srv.URL, Enabled: false},
	}, nil)
	gt.NoError(t, err)
	gt.A(t, articles).Length(0)
}

func TestCollectSkipsBrokenFeed(t *testing.T) {
	ctx := context.Background()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	srv := serveRSS(t, rssItem("Working", wrapped("https://example.com/articles/ok")))

	svc := feed.New()
	articles, err := svc.Collect(ctx, []model.Feed{
		{Name: "broken", URL: broken.URL, Enabled: true},
		{Name: "working", URL: srv.URL, Enabled: true},
	}, nil)
	gt.NoError(t, err)

	gt.A(t, articles).Length(1)
	gt.Equal(t, articles[0].URL, "https://example.com/articles/ok")
}
