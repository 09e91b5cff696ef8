package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidStoreDriver is returned when the store driver is not one of
	// sqlite, postgres or memory.
	ErrInvalidStoreDriver = errors.New("invalid store driver: must be sqlite, postgres or memory")

	// ErrMissingPostgresDSN is returned when the postgres driver is selected
	// without a connection string.
	ErrMissingPostgresDSN = errors.New("postgres driver requires a DSN: use --postgres-dsn or store.postgres_dsn")

	// ErrMissingDBDir is returned when the sqlite driver has no data directory.
	ErrMissingDBDir = errors.New("sqlite driver requires a database directory")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBatchSize is returned when the bulk batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidStepLinkLimit is returned when the step link limit is not positive.
	ErrInvalidStepLinkLimit = errors.New("invalid step link limit: must be positive")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPickMode is returned for a pick mode other than legacy or claim.
	ErrInvalidPickMode = errors.New("invalid pick mode: must be legacy or claim")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrInvalidReportFormat is returned for an unsupported report format.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")
)
