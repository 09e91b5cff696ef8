package model

import (
	"errors"
	"fmt"
	"strings"
)

// CrawlState represents where a Page is in the crawl lifecycle.
// Administrative disabling is tracked separately by Page.AdminDisabled.
type CrawlState int

const (
	// StatePending marks a discovered URL that has not been fetched yet.
	StatePending CrawlState = iota

	// StateLocked marks a record excluded from selection by pick-and-lock
	// or claimed by a crawl step. Nothing in the crawl engine moves a
	// record out of this state; only explicit release operations do.
	StateLocked

	// StateIndexed marks a record whose metadata was extracted and saved.
	StateIndexed
)

// ErrUnknownCrawlState is returned when a string does not name a CrawlState.
var ErrUnknownCrawlState = errors.New("unknown crawl state")

// String returns the lower-case name of the state.
// The same names are used in the database and in JSON output.
func (s CrawlState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLocked:
		return "locked"
	case StateIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// ParseCrawlState converts a state name back into a CrawlState.
// Matching is case-insensitive and ignores surrounding spaces.
func ParseCrawlState(s string) (CrawlState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatePending, nil
	case "locked":
		return StateLocked, nil
	case "indexed":
		return StateIndexed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCrawlState, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CrawlState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CrawlState) UnmarshalText(text []byte) error {
	parsed, err := ParseCrawlState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllCrawlStates returns every state in lifecycle order.
func AllCrawlStates() []CrawlState {
	return []CrawlState{StatePending, StateLocked, StateIndexed}
}
