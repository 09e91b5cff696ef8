package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig pins the defaults so changes to them are intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default store is sqlite under the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.StoreDriver != DriverSQLite {
			t.Errorf("expected StoreDriver 'sqlite', got %q", cfg.StoreDriver)
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default batch size is 30 and step limit is 50", func(t *testing.T) {
		t.Parallel()
		if cfg.BulkBatchSize != 30 {
			t.Errorf("expected BulkBatchSize 30, got %d", cfg.BulkBatchSize)
		}
		if cfg.StepLinkLimit != 50 {
			t.Errorf("expected StepLinkLimit 50, got %d", cfg.StepLinkLimit)
		}
	})

	t.Run("default timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default pick mode is legacy", func(t *testing.T) {
		t.Parallel()
		if cfg.PickMode != "legacy" {
			t.Errorf("expected PickMode 'legacy', got %q", cfg.PickMode)
		}
	})

	t.Run("default schedule is daily at midnight", func(t *testing.T) {
		t.Parallel()
		if cfg.Schedule != "0 0 * * *" {
			t.Errorf("expected Schedule '0 0 * * *', got %q", cfg.Schedule)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

// TestConfigValidate checks one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "memory driver is valid", modify: func(c *Config) { c.StoreDriver = DriverMemory }},
		{name: "postgres with DSN is valid", modify: func(c *Config) {
			c.StoreDriver = DriverPostgres
			c.PostgresDSN = "postgres://localhost/linkspider"
		}},
		{name: "claim pick mode is valid", modify: func(c *Config) { c.PickMode = "claim" }},
		{name: "json log format is valid", modify: func(c *Config) { c.LogFormat = "json" }},
		{name: "markdown report is valid", modify: func(c *Config) { c.ReportFormat = "markdown" }},
		{name: "zero max body size is valid", modify: func(c *Config) { c.MaxBodySize = 0 }},
		{name: "unknown driver", modify: func(c *Config) { c.StoreDriver = "mysql" }, want: ErrInvalidStoreDriver},
		{name: "postgres without DSN", modify: func(c *Config) { c.StoreDriver = DriverPostgres }, want: ErrMissingPostgresDSN},
		{name: "sqlite without dir", modify: func(c *Config) { c.DBDir = "" }, want: ErrMissingDBDir},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, want: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, want: ErrInvalidTimeout},
		{name: "negative max body size", modify: func(c *Config) { c.MaxBodySize = -1 }, want: ErrInvalidMaxBodySize},
		{name: "zero batch size", modify: func(c *Config) { c.BulkBatchSize = 0 }, want: ErrInvalidBatchSize},
		{name: "zero step link limit", modify: func(c *Config) { c.StepLinkLimit = 0 }, want: ErrInvalidStepLinkLimit},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, want: ErrInvalidConcurrency},
		{name: "unknown pick mode", modify: func(c *Config) { c.PickMode = "random" }, want: ErrInvalidPickMode},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }, want: ErrInvalidLogFormat},
		{name: "unknown report format", modify: func(c *Config) { c.ReportFormat = "html" }, want: ErrInvalidReportFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			cfg.DBDir = "/tmp/linkspider"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set values override defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Store: StoreSection{Driver: DriverPostgres, PostgresDSN: "postgres://db/crawl"},
			Fetch: FetchSection{Timeout: 10 * time.Second, Proxy: "127.0.0.1:9050"},
			Crawl: CrawlSection{BatchSize: 5, PickMode: "claim", Schedule: "@hourly"},
			Log:   LogSection{Format: "json", Verbose: true},
			Seeds: []string{"http://example.com"},
		}

		cfg := NewConfig()
		file.Apply(cfg)

		if cfg.StoreDriver != DriverPostgres || cfg.PostgresDSN != "postgres://db/crawl" {
			t.Errorf("unexpected store settings: %q %q", cfg.StoreDriver, cfg.PostgresDSN)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("expected proxy address, got %q", cfg.ProxyAddress)
		}
		if cfg.BulkBatchSize != 5 {
			t.Errorf("expected batch size 5, got %d", cfg.BulkBatchSize)
		}
		if cfg.PickMode != "claim" || cfg.Schedule != "@hourly" {
			t.Errorf("unexpected crawl settings: %q %q", cfg.PickMode, cfg.Schedule)
		}
		if cfg.LogFormat != "json" || !cfg.Verbose {
			t.Errorf("unexpected log settings: %q %v", cfg.LogFormat, cfg.Verbose)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "http://example.com" {
			t.Errorf("unexpected seeds: %v", cfg.Seeds)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)

		want := NewConfig()
		if cfg.StoreDriver != want.StoreDriver || cfg.BulkBatchSize != want.BulkBatchSize ||
			cfg.Timeout != want.Timeout || cfg.Schedule != want.Schedule {
			t.Errorf("expected defaults to be kept, got %+v", cfg)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		var file *File
		cfg := NewConfig()
		file.Apply(cfg)
		if cfg.StoreDriver != DefaultStoreDriver {
			t.Errorf("expected default driver, got %q", cfg.StoreDriver)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.linkspider")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".linkspider")
		content := `store:
  driver: memory
fetch:
  timeout: 45s
  max_body_size: 1024
crawl:
  batch_size: 12
  step_link_limit: 20
  pick_mode: claim
  schedule: "0 0 0 * * ?"
log:
  format: json
seeds:
  - http://example.com
  - http://example.org
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Store.Driver != "memory" {
			t.Errorf("expected driver memory, got %q", cf.Store.Driver)
		}
		if cf.Fetch.Timeout != 45*time.Second {
			t.Errorf("expected timeout 45s, got %v", cf.Fetch.Timeout)
		}
		if cf.Fetch.MaxBodySize != 1024 {
			t.Errorf("expected max body size 1024, got %d", cf.Fetch.MaxBodySize)
		}
		if cf.Crawl.BatchSize != 12 || cf.Crawl.StepLinkLimit != 20 {
			t.Errorf("unexpected crawl limits: %+v", cf.Crawl)
		}
		if cf.Crawl.Schedule != "0 0 0 * * ?" {
			t.Errorf("unexpected schedule %q", cf.Crawl.Schedule)
		}
		if cf.Log.Format != "json" {
			t.Errorf("expected log format json, got %q", cf.Log.Format)
		}
		if len(cf.Seeds) != 2 {
			t.Errorf("expected 2 seeds, got %d", len(cf.Seeds))
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".linkspider")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("seeds: []"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("returns empty for a directory", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(t.TempDir()); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("expected data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}
