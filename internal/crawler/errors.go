package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContent is returned when the fetcher produced no content for a
	// page. The cause has already been logged by the fetcher.
	ErrNoContent = errors.New("no content")

	// ErrUnknownPickMode is returned by ParsePickMode for unsupported names.
	ErrUnknownPickMode = errors.New("unknown pick mode")
)

// PageError describes why indexing a page failed.
type PageError struct {
	// URL is the page that failed.
	URL string

	// Err is the underlying cause, such as ErrNoContent,
	// extract.ErrTitleMissing or extract.ErrMalformedURL.
	Err error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("failed to index %s: %v", e.URL, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
