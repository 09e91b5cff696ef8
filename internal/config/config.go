package config

import (
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "linkspider"

	// DefaultStoreDriver keeps the frontier in a local SQLite file.
	DefaultStoreDriver = "sqlite"

	// DefaultTimeout bounds every page fetch end to end.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultBulkBatchSize is the number of pending records one bulk crawl
	// processes.
	DefaultBulkBatchSize = 30

	// DefaultStepLinkLimit caps the links a single crawl step indexes.
	DefaultStepLinkLimit = 50

	// DefaultPickMode is the selection used by a single crawl step.
	DefaultPickMode = "legacy"

	// DefaultSchedule runs the bulk crawl daily at midnight.
	DefaultSchedule = "0 0 * * *"

	// DefaultLogFormat writes human-readable logs.
	DefaultLogFormat = "text"

	// DefaultReportFormat prints the plain text report.
	DefaultReportFormat = "text"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration options for linkspider.
// It is populated from the config file and CLI flags and passed through the
// application explicitly.
type Config struct {
	// StoreDriver selects the frontier backend: sqlite, postgres or memory.
	StoreDriver string

	// DBDir is the directory holding the SQLite database file.
	// Defaults to XDG data directory (~/.local/share/linkspider on Linux).
	DBDir string

	// PostgresDSN is the connection string used by the postgres driver.
	PostgresDSN string

	// Timeout bounds each page fetch.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// ProxyAddress routes fetches through a SOCKS5 proxy in "host:port"
	// format. Empty means direct connections.
	ProxyAddress string

	// BulkBatchSize is the number of pending records a bulk crawl takes.
	BulkBatchSize int

	// StepLinkLimit caps the links a single step indexes and returns.
	StepLinkLimit int

	// Concurrency bounds the number of pages indexed in parallel by a bulk
	// crawl.
	Concurrency int

	// PickMode is "legacy" (lock every pending record) or "claim" (lock only
	// the processed record).
	PickMode string

	// Schedule is the cron expression used by "crawl --cron".
	Schedule string

	// Seeds are URLs saved as pending records by "seed" when no arguments
	// are given.
	Seeds []string

	// LogFormat is "text" or "json".
	LogFormat string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .linkspider in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// ReportFormat is "text", "json" or "markdown".
	ReportFormat string

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		StoreDriver:   DefaultStoreDriver,
		DBDir:         XDGDataDir(),
		Timeout:       DefaultTimeout,
		MaxBodySize:   DefaultMaxBodySize,
		BulkBatchSize: DefaultBulkBatchSize,
		StepLinkLimit: DefaultStepLinkLimit,
		Concurrency:   runtime.GOMAXPROCS(0),
		PickMode:      DefaultPickMode,
		Schedule:      DefaultSchedule,
		LogFormat:     DefaultLogFormat,
		ReportFormat:  DefaultReportFormat,
	}
}

// XDGDataDir returns the XDG data directory for linkspider.
// On Linux: ~/.local/share/linkspider
// On macOS: ~/Library/Application Support/linkspider
// On Windows: %LOCALAPPDATA%\linkspider
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linkspider.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if !slices.Contains([]string{DriverSQLite, DriverPostgres, DriverMemory}, c.StoreDriver) {
		return ErrInvalidStoreDriver
	}
	if c.StoreDriver == DriverPostgres && c.PostgresDSN == "" {
		return ErrMissingPostgresDSN
	}
	if c.StoreDriver == DriverSQLite && c.DBDir == "" {
		return ErrMissingDBDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BulkBatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.StepLinkLimit <= 0 {
		return ErrInvalidStepLinkLimit
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.PickMode != "legacy" && c.PickMode != "claim" {
		return ErrInvalidPickMode
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	if !slices.Contains([]string{"text", "json", "markdown"}, c.ReportFormat) {
		return ErrInvalidReportFormat
	}
	return nil
}
