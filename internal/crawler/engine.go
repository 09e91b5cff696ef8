package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/nao1215/linkspider/internal/frontier"
)

const (
	// DefaultBulkBatchSize is the number of pending records one BulkCrawl
	// processes.
	DefaultBulkBatchSize = 30

	// DefaultStepLinkLimit caps the links SingleStep indexes and returns.
	DefaultStepLinkLimit = 50
)

// PickMode selects how SingleStep takes its record from the frontier.
type PickMode string

const (
	// PickLegacy uses PickOneAndLock: the whole pending set is locked and
	// only the first record is processed.
	PickLegacy PickMode = "legacy"

	// PickClaim uses Claim: only the processed record is locked.
	PickClaim PickMode = "claim"
)

// ParsePickMode converts a configuration value into a PickMode.
func ParsePickMode(s string) (PickMode, error) {
	switch PickMode(strings.ToLower(strings.TrimSpace(s))) {
	case PickLegacy:
		return PickLegacy, nil
	case PickClaim:
		return PickClaim, nil
	default:
		return "", fmt.Errorf("%w: %q (expected legacy or claim)", ErrUnknownPickMode, s)
	}
}

// releaser is implemented by stores that can return a locked record to
// the pending set.
type releaser interface {
	Release(ctx context.Context, id int64) error
}

// Engine runs the crawl orchestrations against one frontier.
type Engine struct {
	frontier      frontier.Frontier
	indexer       *Indexer
	bulkBatchSize int
	stepLinkLimit int
	concurrency   int
	pickMode      PickMode
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBulkBatchSize sets how many pending records BulkCrawl takes.
func WithBulkBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bulkBatchSize = n
		}
	}
}

// WithStepLinkLimit sets how many discovered links SingleStep handles.
func WithStepLinkLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.stepLinkLimit = n
		}
	}
}

// WithConcurrency sets the maximum number of pages BulkCrawl indexes at
// once. The default is runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithPickMode sets the selection mode used by SingleStep.
func WithPickMode(mode PickMode) Option {
	return func(e *Engine) {
		e.pickMode = mode
	}
}

// WithLogger sets the logger for orchestration events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine. The indexer should write to the same
// frontier.
func NewEngine(f frontier.Frontier, ix *Indexer, opts ...Option) *Engine {
	e := &Engine{
		frontier:      f,
		indexer:       ix,
		bulkBatchSize: DefaultBulkBatchSize,
		stepLinkLimit: DefaultStepLinkLimit,
		concurrency:   runtime.GOMAXPROCS(0),
		pickMode:      PickLegacy,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}
