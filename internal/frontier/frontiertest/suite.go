// Package frontiertest provides a conformance suite that every
// frontier.Store implementation runs from its own tests.
package frontiertest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/model"
)

// Factory returns an empty store. The suite closes it when the test ends.
type Factory func(t *testing.T) frontier.Store

// Run executes the conformance suite against stores built by newStore.
// Every subtest receives its own empty store.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s frontier.Store)
	}{
		{"save assigns id and get returns copy", testSaveAndGet},
		{"save updates existing record", testSaveUpdate},
		{"save rejects invalid pages", testSaveInvalid},
		{"exists is case-insensitive over active records", testExists},
		{"pending batch is ordered and capped", testPendingBatch},
		{"indexed page leaves the pending set", testIndexRoundTrip},
		{"pick one and lock starves siblings", testPickOneAndLock},
		{"pick one and lock is exclusive under concurrency", testPickOneAndLockConcurrent},
		{"claim hands out disjoint records", testClaim},
		{"claim is exclusive under concurrency", testClaimConcurrent},
		{"release and unlock all restore pending", testRelease},
		{"admin disable is independent of crawl state", testAdminDisabled},
		{"search matches descriptions", testSearch},
		{"list filters by state", testList},
		{"stats counts records by state", testStats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func seed(t *testing.T, s frontier.Store, urls ...string) []*model.Page {
	t.Helper()
	pages := make([]*model.Page, 0, len(urls))
	for _, u := range urls {
		p := model.NewPendingPage(u)
		if err := s.Save(context.Background(), p); err != nil {
			t.Fatalf("failed to save %s: %v", u, err)
		}
		pages = append(pages, p)
	}
	return pages
}

func mustGet(t *testing.T, s frontier.Store, id int64) *model.Page {
	t.Helper()
	p, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to get %d: %v", id, err)
	}
	return p
}

func ids(pages []*model.Page) []int64 {
	out := make([]int64, len(pages))
	for i, p := range pages {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testSaveAndGet(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	p := model.NewPendingPage("http://example.com/")
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected save to assign an id")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got := mustGet(t, s, p.ID)
	if got.URL != "http://example.com/" {
		t.Errorf("expected url http://example.com/, got %q", got.URL)
	}
	if got.State != model.StatePending {
		t.Errorf("expected pending, got %s", got.State)
	}
	if got.Title != "" || got.Description != "" {
		t.Errorf("expected empty metadata, got %q/%q", got.Title, got.Description)
	}

	got.URL = "http://mutated.com/"
	if again := mustGet(t, s, p.ID); again.URL != "http://example.com/" {
		t.Errorf("expected stored record to be unaffected, got %q", again.URL)
	}

	second := seed(t, s, "http://example.com/2")[0]
	if second.ID == p.ID {
		t.Errorf("expected distinct ids, both are %d", p.ID)
	}

	if _, err := s.Get(ctx, 999999); !errors.Is(err, frontier.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testSaveUpdate(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	p := seed(t, s, "http://example.com/")[0]

	p.MarkIndexed("Home", "Welcome", time.Now().UTC())
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := mustGet(t, s, p.ID)
	if got.Title != "Home" || got.Description != "Welcome" {
		t.Errorf("expected Home/Welcome, got %q/%q", got.Title, got.Description)
	}
	if got.State != model.StateIndexed {
		t.Errorf("expected indexed, got %s", got.State)
	}
	if got.IndexedAt.IsZero() {
		t.Error("expected IndexedAt to be stored")
	}

	missing := &model.Page{ID: 424242, URL: "http://nowhere.com/"}
	if err := s.Save(ctx, missing); !errors.Is(err, frontier.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testSaveInvalid(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	if err := s.Save(ctx, nil); !errors.Is(err, frontier.ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage for nil page, got %v", err)
	}
	if err := s.Save(ctx, &model.Page{}); !errors.Is(err, frontier.ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage for empty url, got %v", err)
	}
}

func testExists(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://Example.com/About", "http://disabled.com/", "http://locked.com/", "http://café.com/MENÜ")

	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com/about", true},
		{"HTTP://EXAMPLE.COM/ABOUT", true},
		{"http://example.com/about/", false},
		{"http://unknown.com/", false},
		{"http://CAFÉ.com/menü", true},
		{"http://cafe.com/menu", false},
	}
	for _, tt := range tests {
		got, err := s.Exists(ctx, tt.url)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("Exists(%q): expected %v, got %v", tt.url, tt.want, got)
		}
	}

	if err := s.SetAdminDisabled(ctx, pages[1].ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.Exists(ctx, "http://disabled.com/"); got {
		t.Error("expected disabled record not to count as existing")
	}

	pages[2].State = model.StateLocked
	if err := s.Save(ctx, pages[2]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.Exists(ctx, "http://locked.com/"); got {
		t.Error("expected locked record not to count as existing")
	}
}

func testPendingBatch(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://a.com/", "http://b.com/", "http://c.com/", "http://d.com/", "http://e.com/")

	pages[1].MarkIndexed("B", "", time.Now().UTC())
	if err := s.Save(ctx, pages[1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetAdminDisabled(ctx, pages[3].ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batch, err := s.PendingBatch(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{pages[0].ID, pages[2].ID, pages[4].ID}
	if !equalIDs(ids(batch), want) {
		t.Errorf("expected ids %v, got %v", want, ids(batch))
	}

	capped, err := s.PendingBatch(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(capped), want[:2]) {
		t.Errorf("expected ids %v, got %v", want[:2], ids(capped))
	}

	if _, err := s.PendingBatch(ctx, 0); !errors.Is(err, frontier.ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func testIndexRoundTrip(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	seed(t, s, "http://site.com/")

	batch, err := s.PendingBatch(ctx, 30)
	if err != nil || len(batch) != 1 {
		t.Fatalf("expected one pending record, got %d (err %v)", len(batch), err)
	}
	p := batch[0]
	p.MarkIndexed("Home", "Welcome", time.Now().UTC())
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := mustGet(t, s, p.ID)
	if got.Title != "Home" || got.Description != "Welcome" {
		t.Errorf("expected Home/Welcome, got %q/%q", got.Title, got.Description)
	}
	batch, err = s.PendingBatch(ctx, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("expected no pending records, got %v", ids(batch))
	}
}

func testPickOneAndLock(t *testing.T, s frontier.Store) {
	ctx := context.Background()

	none, err := s.PickOneAndLock(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil from an empty frontier, got %+v", none)
	}

	pages := seed(t, s, "http://a.com/", "http://b.com/")

	first, err := s.PickOneAndLock(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == nil {
		t.Fatal("expected a record")
	}
	if first.ID != pages[0].ID {
		t.Errorf("expected lowest id %d, got %d", pages[0].ID, first.ID)
	}

	sibling := mustGet(t, s, pages[1].ID)
	if sibling.State != model.StateLocked {
		t.Errorf("expected sibling to be locked, got %s", sibling.State)
	}
	if sibling.AdminDisabled {
		t.Error("expected pick-and-lock to leave the admin flag alone")
	}

	second, err := s.PickOneAndLock(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != nil {
		t.Errorf("expected frontier to be exhausted, got %+v", second)
	}
}

func testPickOneAndLockConcurrent(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	seed(t, s, "http://a.com/", "http://b.com/", "http://c.com/", "http://d.com/")

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		picked []*model.Page
		errs   []error
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.PickOneAndLock(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if p != nil {
				picked = append(picked, p)
			}
		}()
	}
	wg.Wait()

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(picked) != 1 {
		t.Errorf("expected exactly one caller to receive a record, got %d", len(picked))
	}
}

func testClaim(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://a.com/", "http://b.com/")

	first, err := s.Claim(ctx)
	if err != nil || first == nil {
		t.Fatalf("expected a record, got %v (err %v)", first, err)
	}
	if first.State != model.StateLocked {
		t.Errorf("expected claimed record to be locked, got %s", first.State)
	}
	if sibling := mustGet(t, s, pages[1].ID); sibling.State != model.StatePending {
		t.Errorf("expected sibling to stay pending, got %s", sibling.State)
	}

	second, err := s.Claim(ctx)
	if err != nil || second == nil {
		t.Fatalf("expected a second record, got %v (err %v)", second, err)
	}
	if second.ID == first.ID {
		t.Errorf("expected distinct records, both are %d", first.ID)
	}

	third, err := s.Claim(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third != nil {
		t.Errorf("expected nil once the frontier is empty, got %+v", third)
	}
}

func testClaimConcurrent(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	const records = 6
	urls := make([]string, records)
	for i := range urls {
		urls[i] = "http://site.com/" + string(rune('a'+i))
	}
	seed(t, s, urls...)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]int)
	)
	for range records * 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.Claim(ctx)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if p == nil {
				return
			}
			mu.Lock()
			seen[p.ID]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != records {
		t.Errorf("expected %d distinct claims, got %d", records, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("record %d was claimed %d times", id, n)
		}
	}
}

func testRelease(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://a.com/", "http://b.com/", "http://c.com/")

	if _, err := s.PickOneAndLock(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Release(ctx, pages[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mustGet(t, s, pages[0].ID); got.State != model.StatePending {
		t.Errorf("expected released record to be pending, got %s", got.State)
	}

	n, err := s.UnlockAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 unlocked records, got %d", n)
	}
	batch, err := s.PendingBatch(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 3 {
		t.Errorf("expected 3 pending records, got %d", len(batch))
	}

	indexed := pages[1]
	indexed.MarkIndexed("B", "", time.Now().UTC())
	if err := s.Save(ctx, indexed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Release(ctx, indexed.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mustGet(t, s, indexed.ID); got.State != model.StateIndexed {
		t.Errorf("expected release to leave indexed record alone, got %s", got.State)
	}

	if err := s.Release(ctx, 999999); !errors.Is(err, frontier.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testAdminDisabled(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	p := seed(t, s, "http://a.com/")[0]

	if err := s.SetAdminDisabled(ctx, p.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := mustGet(t, s, p.ID)
	if !got.AdminDisabled {
		t.Error("expected record to be disabled")
	}
	if got.State != model.StatePending {
		t.Errorf("expected state to stay pending, got %s", got.State)
	}
	if batch, _ := s.PendingBatch(ctx, 10); len(batch) != 0 {
		t.Errorf("expected disabled record to be excluded, got %v", ids(batch))
	}
	if picked, _ := s.PickOneAndLock(ctx); picked != nil {
		t.Errorf("expected nothing to pick, got %+v", picked)
	}

	if err := s.SetAdminDisabled(ctx, p.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch, _ := s.PendingBatch(ctx, 10); len(batch) != 1 {
		t.Errorf("expected re-enabled record to be pending again, got %d", len(batch))
	}

	if err := s.SetAdminDisabled(ctx, 999999, true); !errors.Is(err, frontier.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testSearch(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://a.com/", "http://b.com/", "http://c.com/", "http://d.com/")
	descriptions := []string{"Go crawler tutorial", "Cooking with GO", "Gardening", "go dark"}
	for i, p := range pages {
		p.MarkIndexed("T", descriptions[i], time.Now().UTC())
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.SetAdminDisabled(ctx, pages[3].ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seed(t, s, "http://pending.com/")

	got, err := s.Search(ctx, "go", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{pages[0].ID, pages[1].ID}
	if !equalIDs(ids(got), want) {
		t.Errorf("expected ids %v, got %v", want, ids(got))
	}

	limited, err := s.Search(ctx, "go", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 result, got %d", len(limited))
	}

	empty, err := s.Search(ctx, "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty text to match nothing, got %d", len(empty))
	}
}

func testList(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://a.com/", "http://b.com/", "http://c.com/")
	pages[2].MarkIndexed("C", "", time.Now().UTC())
	if err := s.Save(ctx, pages[2]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := s.List(ctx, frontier.ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(all), ids(pages)) {
		t.Errorf("expected ids %v, got %v", ids(pages), ids(all))
	}

	pending := model.StatePending
	onlyPending, err := s.List(ctx, frontier.ListFilter{State: &pending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(onlyPending), []int64{pages[0].ID, pages[1].ID}) {
		t.Errorf("expected pending ids, got %v", ids(onlyPending))
	}

	newest, err := s.List(ctx, frontier.ListFilter{Newest: true, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(newest), []int64{pages[2].ID, pages[1].ID}) {
		t.Errorf("expected newest two ids, got %v", ids(newest))
	}
}

func testStats(t *testing.T, s frontier.Store) {
	ctx := context.Background()
	pages := seed(t, s, "http://a.com/", "http://b.com/", "http://c.com/", "http://d.com/")
	pages[0].MarkIndexed("A", "", time.Now().UTC())
	if err := s.Save(ctx, pages[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Claim(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetAdminDisabled(ctx, pages[3].ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.FrontierStats{Pending: 2, Locked: 1, Indexed: 1, Disabled: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}
