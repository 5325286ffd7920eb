package extract_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/service/extract"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Page</title><script>console.log("noise")</script></head>
<body>
  <nav>Home | About</nav>
  <article>
    <h1>A New Approach to Caching</h1>
    <p>Caching layers fail under sudden invalidation storms.</p>
    <p>This article proposes a lease-based design.</p>
  </article>
  <footer>copyright</footer>
</body>
</html>`

func TestFetchExtractsArticleText(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML)
	}))
	t.Cleanup(srv.Close)

	svc := extract.New()
	content, err := svc.Fetch(ctx, srv.URL)
	gt.NoError(t, err)

	gt.S(t, content).
		Contains("A New Approach to Caching").
		Contains("lease-based design").
		NotContains("console.log").
		NotContains("Home | About").
		NotContains("copyright")
}

func TestFetchCachesResults(t *testing.T) {
	ctx := context.Background()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, articleHTML)
	}))
	t.Cleanup(srv.Close)

	svc := extract.New()
	_, err := svc.Fetch(ctx, srv.URL)
	gt.NoError(t, err)
	_, err = svc.Fetch(ctx, srv.URL)
	gt.NoError(t, err)

	gt.Equal(t, hits.Load(), int32(1))
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	svc := extract.New()
	_, err := svc.Fetch(ctx, srv.URL)
	gt.Error(t, err)
}

func TestNormalizeTruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes force the byte cap to land mid-rune
	long := strings.Repeat("案", extract.MaxContentLength)

	got := extract.Normalize(long)
	gt.B(t, utf8.ValidString(got)).True()
	gt.A(t, []rune(got)).Length(extract.MaxContentLength)
}

func TestFetchAllSkipsFailures(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/bad") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, articleHTML)
	}))
	t.Cleanup(srv.Close)

	goodURL := srv.URL + "/good"
	badURL := srv.URL + "/bad"

	articles := []*model.SeenURL{
		{URLHash: types.HashURL(goodURL), URL: goodURL, Title: "good"},
		{URLHash: types.HashURL(badURL), URL: badURL, Title: "bad"},
	}

	svc := extract.New(extract.WithConcurrency(2))
	contents, err := svc.FetchAll(ctx, articles)
	gt.NoError(t, err)

	gt.M(t, contents).HasKey(types.HashURL(goodURL))
	gt.Equal(t, len(contents), 1)
}
