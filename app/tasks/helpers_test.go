package tasks

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lysyi3m/rss-ingest/app/cfg"
	"github.com/lysyi3m/rss-ingest/app/database"
	"github.com/lysyi3m/rss-ingest/app/feed"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// newTestFetcher serves feed documents from handler for any URL, so feeds
// can be configured with their real-looking addresses.
func newTestFetcher(handler http.HandlerFunc) *feed.Fetcher {
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			rec := httptest.NewRecorder()
			handler(rec, req)
			return rec.Result(), nil
		}),
	}
	return feed.NewFetcher(client, "TestAgent/1.0", "en-US,en;q=0.5", 5*time.Second)
}

// feedServer maps feed URLs to response bodies; unknown URLs return 404.
func feedServer(feeds map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := feeds[r.URL.String()]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}
}

type fakeArticleRepo struct {
	articles    map[string]database.Article
	inserted    []database.Article
	existsCalls int
	insertCalls int
	existsErr   error
	insertHook  func(database.Article) error
}

var _ database.ArticleRepository = (*fakeArticleRepo)(nil)

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[string]database.Article)}
}

func articleKey(sourceURL, guid string) string {
	return sourceURL + "\x00" + guid
}

func (r *fakeArticleRepo) ArticleExists(ctx context.Context, sourceURL, guid string) (bool, error) {
	r.existsCalls++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.articles[articleKey(sourceURL, guid)]
	return ok, nil
}

func (r *fakeArticleRepo) InsertArticle(ctx context.Context, article database.Article) error {
	r.insertCalls++
	if r.insertHook != nil {
		if err := r.insertHook(article); err != nil {
			return err
		}
	}
	key := articleKey(article.SourceURL, article.GUID)
	if _, ok := r.articles[key]; ok {
		return database.ErrDuplicateArticle
	}
	r.articles[key] = article
	r.inserted = append(r.inserted, article)
	return nil
}

func newTestRunner(fetcher *feed.Fetcher, repo database.ArticleRepository, policy cfg.DuplicateCheckPolicy) *Runner {
	checker := NewDuplicateChecker(repo, policy, time.Second)
	return NewRunner(fetcher, feed.NewParser(), checker, repo, time.Second)
}

// captureLogs routes the default slog logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func rssDocument(items ...string) string {
	doc := `<?xml version="1.0"?><rss version="2.0"><channel><title>Test</title><link>http://x</link>`
	for _, item := range items {
		doc += item
	}
	return doc + `</channel></rss>`
}
