package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/linkspider/internal/fetcher"
	"github.com/nao1215/linkspider/internal/frontier/sqlite"
	"github.com/nao1215/linkspider/internal/model"
)

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Home</title>` +
			`<meta name="description" content="Front page"/><link href="/site.css" rel="stylesheet"></head>` +
			`<body><a href="/about">About</a><a href="/missing">Missing</a><a href="mailto:x@y.z">Mail</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<title>About</title><a href="/">Home</a>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCrawlAgainstHTTPServer(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	store, err := sqlite.Open(t.TempDir(), sqlite.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f, err := fetcher.New(fetcher.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("failed to create fetcher: %v", err)
	}
	engine := newTestEngine(store, f)
	ctx := context.Background()

	seedPages(t, store, srv.URL+"/")

	first, err := engine.BulkCrawl(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Indexed != 1 || first.LinksSaved != 2 {
		t.Errorf("expected home indexed with 2 queued links, got %+v", first)
	}

	second, err := engine.BulkCrawl(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Attempted != 2 || second.Indexed != 1 || second.Failed != 1 {
		t.Errorf("expected about indexed and missing failed, got %+v", second)
	}
	if second.LinksSaved != 0 {
		t.Errorf("expected the link back home to be known, got %d saved", second.LinksSaved)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.FrontierStats{Pending: 1, Indexed: 2}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}

	results, err := store.Search(ctx, "front", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Home" {
		t.Errorf("expected home page in search results, got %+v", results)
	}
}
