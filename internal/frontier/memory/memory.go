// Package memory provides an in-process frontier store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/model"
)

// Compile-time check that Store implements frontier.Store.
var _ frontier.Store = (*Store)(nil)

// Store keeps frontier records in memory. Records are stored and handed
// out as copies, so callers can modify the pages they receive.
type Store struct {
	mu     sync.RWMutex
	pages  map[int64]*model.Page
	nextID int64
	closed bool
	now    func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		pages:  make(map[int64]*model.Page),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Exists implements frontier.Frontier.
func (s *Store) Exists(_ context.Context, url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, frontier.ErrStoreClosed
	}

	want := frontier.URLKey(url)
	for _, p := range s.pages {
		if p.IsActive() && frontier.URLKey(p.URL) == want {
			return true, nil
		}
	}
	return false, nil
}

// Save implements frontier.Frontier.
func (s *Store) Save(_ context.Context, page *model.Page) error {
	if err := frontier.ValidatePage(page); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return frontier.ErrStoreClosed
	}

	now := s.now()
	if page.ID == 0 {
		page.ID = s.nextID
		s.nextID++
		page.CreatedAt = now
		page.UpdatedAt = now
		s.pages[page.ID] = page.Clone()
		return nil
	}

	existing, ok := s.pages[page.ID]
	if !ok {
		return frontier.ErrNotFound
	}
	page.CreatedAt = existing.CreatedAt
	page.UpdatedAt = now
	s.pages[page.ID] = page.Clone()
	return nil
}

// PendingBatch implements frontier.Frontier.
func (s *Store) PendingBatch(_ context.Context, limit int) ([]*model.Page, error) {
	if limit <= 0 {
		return nil, frontier.ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, frontier.ErrStoreClosed
	}

	pending := s.sortedLocked(func(p *model.Page) bool { return p.IsPending() }, false)
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return cloneAll(pending), nil
}

// PickOneAndLock implements frontier.Frontier.
func (s *Store) PickOneAndLock(_ context.Context) (*model.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, frontier.ErrStoreClosed
	}

	pending := s.sortedLocked(func(p *model.Page) bool { return p.IsPending() }, false)
	if len(pending) == 0 {
		return nil, nil
	}
	now := s.now()
	for _, p := range pending {
		p.State = model.StateLocked
		p.UpdatedAt = now
	}
	return pending[0].Clone(), nil
}

// Claim implements frontier.Frontier.
func (s *Store) Claim(_ context.Context) (*model.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, frontier.ErrStoreClosed
	}

	pending := s.sortedLocked(func(p *model.Page) bool { return p.IsPending() }, false)
	if len(pending) == 0 {
		return nil, nil
	}
	chosen := pending[0]
	chosen.State = model.StateLocked
	chosen.UpdatedAt = s.now()
	return chosen.Clone(), nil
}

// Get implements frontier.Store.
func (s *Store) Get(_ context.Context, id int64) (*model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, frontier.ErrStoreClosed
	}

	p, ok := s.pages[id]
	if !ok {
		return nil, frontier.ErrNotFound
	}
	return p.Clone(), nil
}

// SetAdminDisabled implements frontier.Store.
func (s *Store) SetAdminDisabled(_ context.Context, id int64, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return frontier.ErrStoreClosed
	}

	p, ok := s.pages[id]
	if !ok {
		return frontier.ErrNotFound
	}
	p.AdminDisabled = disabled
	p.UpdatedAt = s.now()
	return nil
}

// Release implements frontier.Store.
func (s *Store) Release(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return frontier.ErrStoreClosed
	}

	p, ok := s.pages[id]
	if !ok {
		return frontier.ErrNotFound
	}
	if p.State == model.StateLocked {
		p.State = model.StatePending
		p.UpdatedAt = s.now()
	}
	return nil
}

// UnlockAll implements frontier.Store.
func (s *Store) UnlockAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, frontier.ErrStoreClosed
	}

	var n int64
	now := s.now()
	for _, p := range s.pages {
		if p.State == model.StateLocked {
			p.State = model.StatePending
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// Search implements frontier.Store.
func (s *Store) Search(_ context.Context, text string, limit int) ([]*model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, frontier.ErrStoreClosed
	}
	if text == "" {
		return nil, nil
	}

	needle := foldCase(text)
	matches := s.sortedLocked(func(p *model.Page) bool {
		return p.IsIndexed() && !p.AdminDisabled &&
			strings.Contains(foldCase(p.Description), needle)
	}, false)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return cloneAll(matches), nil
}

// List implements frontier.Store.
func (s *Store) List(_ context.Context, filter frontier.ListFilter) ([]*model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, frontier.ErrStoreClosed
	}

	pages := s.sortedLocked(func(p *model.Page) bool {
		return filter.State == nil || p.State == *filter.State
	}, filter.Newest)
	if filter.Limit > 0 && len(pages) > filter.Limit {
		pages = pages[:filter.Limit]
	}
	return cloneAll(pages), nil
}

// Stats implements frontier.Store.
func (s *Store) Stats(_ context.Context) (model.FrontierStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.FrontierStats{}, frontier.ErrStoreClosed
	}

	var stats model.FrontierStats
	for _, p := range s.pages {
		switch p.State {
		case model.StatePending:
			stats.Pending++
		case model.StateLocked:
			stats.Locked++
		case model.StateIndexed:
			stats.Indexed++
		}
		if p.AdminDisabled {
			stats.Disabled++
		}
	}
	return stats, nil
}

// Close implements frontier.Store. Using the store afterwards returns
// frontier.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// sortedLocked returns the stored pages matching keep, ordered by ID.
// The caller must hold s.mu. The returned pointers are the stored pages.
func (s *Store) sortedLocked(keep func(*model.Page) bool, newest bool) []*model.Page {
	out := make([]*model.Page, 0, len(s.pages))
	for _, p := range s.pages {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newest {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// foldCase returns the case-folded form of s. A Caser is stateful, so a
// new one is created per call.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

func cloneAll(pages []*model.Page) []*model.Page {
	out := make([]*model.Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}
