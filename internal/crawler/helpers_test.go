package crawler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/frontier/memory"
	"github.com/nao1215/linkspider/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeWeb serves canned content by URL and records which URLs were fetched.
type fakeWeb struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched []string
}

func newFakeWeb(pages map[string]string) *fakeWeb {
	return &fakeWeb{pages: pages}
}

func (w *fakeWeb) Fetch(_ context.Context, url string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fetched = append(w.fetched, url)
	return w.pages[url]
}

func (w *fakeWeb) fetchCount(url string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, u := range w.fetched {
		if u == url {
			n++
		}
	}
	return n
}

func seedPages(t *testing.T, s frontier.Store, urls ...string) []*model.Page {
	t.Helper()
	pages := make([]*model.Page, 0, len(urls))
	for _, u := range urls {
		p := model.NewPendingPage(u)
		if err := s.Save(context.Background(), p); err != nil {
			t.Fatalf("failed to seed %s: %v", u, err)
		}
		pages = append(pages, p)
	}
	return pages
}

func getPage(t *testing.T, s frontier.Store, id int64) *model.Page {
	t.Helper()
	p, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to get %d: %v", id, err)
	}
	return p
}

func allPages(t *testing.T, s frontier.Store) []*model.Page {
	t.Helper()
	pages, err := s.List(context.Background(), frontier.ListFilter{})
	if err != nil {
		t.Fatalf("failed to list pages: %v", err)
	}
	return pages
}

func newTestEngine(s frontier.Store, web Fetcher, opts ...Option) *Engine {
	ix := NewIndexer(s, web, WithIndexerLogger(discardLogger()))
	return NewEngine(s, ix, append([]Option{WithLogger(discardLogger())}, opts...)...)
}

func newMemoryStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	t.Cleanup(func() { _ = s.Close() })
	return s
}
