package model

import (
	"strings"
	"time"
)

// Page represents one record of the crawl frontier.
// A Page starts as a bare URL discovered in some other page's links and
// becomes indexed once its title and description have been extracted.
type Page struct {
	// ID is assigned by the frontier store on creation.
	// Zero means the page has not been stored yet.
	ID int64 `json:"id"`

	// URL is the absolute URL of the page.
	// Uniqueness is checked before insertion but not enforced by the store.
	URL string `json:"url"`

	// Title is the raw text between the first <title> and </title>.
	// Empty until the page is indexed.
	Title string `json:"title,omitempty"`

	// Description is the content of the description meta tag.
	// Indexed pages without one keep an empty description.
	Description string `json:"description,omitempty"`

	// State is the crawl lifecycle state.
	State CrawlState `json:"state"`

	// AdminDisabled hides the page from crawling, existence checks and search.
	AdminDisabled bool `json:"admin_disabled"`

	// CreatedAt is when the record was first stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last saved.
	UpdatedAt time.Time `json:"updated_at"`

	// IndexedAt is when the page transitioned to StateIndexed.
	IndexedAt time.Time `json:"indexed_at,omitzero"`
}

// NewPendingPage returns an unsaved pending record for rawURL.
func NewPendingPage(rawURL string) *Page {
	return &Page{
		URL:   rawURL,
		State: StatePending,
	}
}

// IsPending reports whether the page is eligible for selection.
func (p *Page) IsPending() bool {
	return p.State == StatePending && !p.AdminDisabled
}

// IsIndexed reports whether the page metadata has been saved.
func (p *Page) IsIndexed() bool {
	return p.State == StateIndexed
}

// IsActive reports whether the page counts as known for duplicate checks.
// Locked and administratively disabled records are not active, so a URL
// excluded by pick-and-lock can be rediscovered and queued again.
func (p *Page) IsActive() bool {
	return !p.AdminDisabled && p.State != StateLocked
}

// MarkIndexed stores extracted metadata on the page and moves it to
// StateIndexed. The caller is responsible for saving the page.
func (p *Page) MarkIndexed(title, description string, at time.Time) {
	p.Title = title
	p.Description = description
	p.State = StateIndexed
	p.IndexedAt = at
}

// Clone returns a copy of the page.
// Stores hand out clones so callers never mutate shared state.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// StripFragment removes a "#..." suffix from rawURL.
func StripFragment(rawURL string) string {
	if idx := strings.IndexByte(rawURL, '#'); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
