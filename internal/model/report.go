package model

import "time"

// FrontierStats counts frontier records by crawl state.
// Disabled counts administratively disabled records regardless of state,
// so it overlaps with the per-state counters.
type FrontierStats struct {
	Pending  int `json:"pending"`
	Locked   int `json:"locked"`
	Indexed  int `json:"indexed"`
	Disabled int `json:"disabled"`
}

// Total returns the number of records in the frontier.
func (s FrontierStats) Total() int {
	return s.Pending + s.Locked + s.Indexed
}

// Count returns the counter for state.
func (s FrontierStats) Count(state CrawlState) int {
	switch state {
	case StatePending:
		return s.Pending
	case StateLocked:
		return s.Locked
	case StateIndexed:
		return s.Indexed
	default:
		return 0
	}
}

// FrontierReport is a point-in-time summary of the frontier used by the
// report writers.
type FrontierReport struct {
	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Store names the frontier backend (sqlite, postgres, memory).
	Store string `json:"store"`

	// Stats holds the per-state record counts.
	Stats FrontierStats `json:"stats"`

	// Pages lists the records selected for the report, usually the most
	// recent ones or the result of a search.
	Pages []*Page `json:"pages"`
}

// NewFrontierReport creates a report stamped with the current time.
func NewFrontierReport(store string, stats FrontierStats, pages []*Page) *FrontierReport {
	return &FrontierReport{
		GeneratedAt: time.Now(),
		Store:       store,
		Stats:       stats,
		Pages:       pages,
	}
}
