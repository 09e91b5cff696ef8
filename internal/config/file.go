package config

import "time"

// File represents the structure of the .linkspider configuration file.
// Every field is optional; zero values leave the corresponding Config
// default untouched.
type File struct {
	Store StoreSection `yaml:"store,omitempty"`
	Fetch FetchSection `yaml:"fetch,omitempty"`
	Crawl CrawlSection `yaml:"crawl,omitempty"`
	Log   LogSection   `yaml:"log,omitempty"`

	// Seeds are URLs saved as pending records by "linkspider seed".
	Seeds []string `yaml:"seeds,omitempty"`
}

// StoreSection selects and configures the frontier backend.
type StoreSection struct {
	Driver      string `yaml:"driver,omitempty"`
	DBDir       string `yaml:"db_dir,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// FetchSection configures page retrieval.
type FetchSection struct {
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	MaxBodySize int64         `yaml:"max_body_size,omitempty"`
	Proxy       string        `yaml:"proxy,omitempty"`
}

// CrawlSection configures the crawl engine.
type CrawlSection struct {
	BatchSize     int    `yaml:"batch_size,omitempty"`
	StepLinkLimit int    `yaml:"step_link_limit,omitempty"`
	Concurrency   int    `yaml:"concurrency,omitempty"`
	PickMode      string `yaml:"pick_mode,omitempty"`
	Schedule      string `yaml:"schedule,omitempty"`
}

// LogSection configures logging output.
type LogSection struct {
	Format  string `yaml:"format,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Apply copies every value set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf == nil || cfg == nil {
		return
	}

	setString(&cfg.StoreDriver, cf.Store.Driver)
	setString(&cfg.DBDir, cf.Store.DBDir)
	setString(&cfg.PostgresDSN, cf.Store.PostgresDSN)

	if cf.Fetch.Timeout != 0 {
		cfg.Timeout = cf.Fetch.Timeout
	}
	if cf.Fetch.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.Fetch.MaxBodySize
	}
	setString(&cfg.ProxyAddress, cf.Fetch.Proxy)

	setInt(&cfg.BulkBatchSize, cf.Crawl.BatchSize)
	setInt(&cfg.StepLinkLimit, cf.Crawl.StepLinkLimit)
	setInt(&cfg.Concurrency, cf.Crawl.Concurrency)
	setString(&cfg.PickMode, cf.Crawl.PickMode)
	setString(&cfg.Schedule, cf.Crawl.Schedule)

	setString(&cfg.LogFormat, cf.Log.Format)
	if cf.Log.Verbose {
		cfg.Verbose = true
	}

	if len(cf.Seeds) > 0 {
		cfg.Seeds = append([]string(nil), cf.Seeds...)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
