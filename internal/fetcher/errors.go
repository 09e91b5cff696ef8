package fetcher

import "errors"

var (
	// ErrUnexpectedStatus is returned for responses outside the 2xx range.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrEmptyBody is returned when a successful response has no content.
	ErrEmptyBody = errors.New("empty response body")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
)
