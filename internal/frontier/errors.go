package frontier

import "errors"

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("page not found")

	// ErrInvalidLimit is returned when a batch limit is not positive.
	ErrInvalidLimit = errors.New("invalid limit: must be positive")

	// ErrInvalidPage is returned when saving a nil page or a page without URL.
	ErrInvalidPage = errors.New("invalid page: url is required")

	// ErrUnknownDriver is returned by Open for an unsupported store driver.
	ErrUnknownDriver = errors.New("unknown store driver")

	// ErrStoreClosed is returned when a closed store is used.
	ErrStoreClosed = errors.New("store is closed")
)
