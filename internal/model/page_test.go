package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPagePredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		page        Page
		wantPending bool
		wantIndexed bool
		wantActive  bool
	}{
		{
			name:        "new page is pending and active",
			page:        Page{URL: "http://example.com", State: StatePending},
			wantPending: true,
			wantActive:  true,
		},
		{
			name:       "disabled pending page is not pending",
			page:       Page{URL: "http://example.com", State: StatePending, AdminDisabled: true},
			wantActive: false,
		},
		{
			name: "locked page is neither pending nor active",
			page: Page{URL: "http://example.com", State: StateLocked},
		},
		{
			name:        "indexed page is active",
			page:        Page{URL: "http://example.com", State: StateIndexed},
			wantIndexed: true,
			wantActive:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.page.IsPending(); got != tt.wantPending {
				t.Errorf("IsPending: expected %v, got %v", tt.wantPending, got)
			}
			if got := tt.page.IsIndexed(); got != tt.wantIndexed {
				t.Errorf("IsIndexed: expected %v, got %v", tt.wantIndexed, got)
			}
			if got := tt.page.IsActive(); got != tt.wantActive {
				t.Errorf("IsActive: expected %v, got %v", tt.wantActive, got)
			}
		})
	}
}

func TestPageMarkIndexed(t *testing.T) {
	t.Parallel()

	p := NewPendingPage("http://example.com")
	now := time.Now()
	p.MarkIndexed("Home", "", now)

	if p.State != StateIndexed {
		t.Errorf("expected state indexed, got %s", p.State)
	}
	if p.Title != "Home" {
		t.Errorf("expected title 'Home', got %q", p.Title)
	}
	if p.Description != "" {
		t.Errorf("expected empty description, got %q", p.Description)
	}
	if !p.IndexedAt.Equal(now) {
		t.Errorf("expected IndexedAt %v, got %v", now, p.IndexedAt)
	}
}

func TestPageClone(t *testing.T) {
	t.Parallel()

	t.Run("clone is independent", func(t *testing.T) {
		t.Parallel()
		p := &Page{ID: 1, URL: "http://example.com"}
		c := p.Clone()
		c.URL = "http://other.com"
		if p.URL != "http://example.com" {
			t.Errorf("expected original URL untouched, got %q", p.URL)
		}
	})

	t.Run("nil clone is nil", func(t *testing.T) {
		t.Parallel()
		var p *Page
		if p.Clone() != nil {
			t.Error("expected nil clone")
		}
	})
}

func TestStripFragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com/a#top", "http://example.com/a"},
		{"http://example.com/a", "http://example.com/a"},
		{"http://example.com/#", "http://example.com/"},
		{"#only", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := StripFragment(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCrawlState(t *testing.T) {
	t.Parallel()

	t.Run("string and parse agree", func(t *testing.T) {
		t.Parallel()
		for _, s := range AllCrawlStates() {
			parsed, err := ParseCrawlState(s.String())
			if err != nil {
				t.Fatalf("unexpected error for %s: %v", s, err)
			}
			if parsed != s {
				t.Errorf("expected %s, got %s", s, parsed)
			}
		}
	})

	t.Run("parse is case-insensitive", func(t *testing.T) {
		t.Parallel()
		got, err := ParseCrawlState("  Indexed ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != StateIndexed {
			t.Errorf("expected indexed, got %s", got)
		}
	})

	t.Run("unknown name fails", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCrawlState("done")
		if !errors.Is(err, ErrUnknownCrawlState) {
			t.Errorf("expected ErrUnknownCrawlState, got %v", err)
		}
	})

	t.Run("out of range value prints unknown", func(t *testing.T) {
		t.Parallel()
		if got := CrawlState(42).String(); got != "unknown" {
			t.Errorf("expected 'unknown', got %q", got)
		}
	})

	t.Run("json uses state names", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Page{URL: "http://example.com", State: StateLocked})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `"state":"locked"`) {
			t.Errorf("expected state name in JSON, got %s", data)
		}

		var back Page
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back.State != StateLocked {
			t.Errorf("expected locked after decode, got %s", back.State)
		}
	})
}

func TestFrontierStats(t *testing.T) {
	t.Parallel()

	s := FrontierStats{Pending: 3, Locked: 2, Indexed: 5, Disabled: 1}
	if s.Total() != 10 {
		t.Errorf("expected total 10, got %d", s.Total())
	}
	if s.Count(StateLocked) != 2 {
		t.Errorf("expected 2 locked, got %d", s.Count(StateLocked))
	}
	if s.Count(CrawlState(9)) != 0 {
		t.Errorf("expected 0 for unknown state, got %d", s.Count(CrawlState(9)))
	}
}
