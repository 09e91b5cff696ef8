package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BulkResult summarises one BulkCrawl run.
type BulkResult struct {
	// Attempted is the number of pending records taken from the frontier.
	Attempted int

	// Indexed is the number of records saved as indexed.
	Indexed int

	// Failed is the number of records that could not be indexed.
	Failed int

	// LinksDiscovered is the total number of links found on indexed pages.
	LinksDiscovered int

	// LinksSaved is the number of new pending records created.
	LinksSaved int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// BulkCrawl indexes up to the configured batch size of pending records
// concurrently and queues the links they contain.
//
// A failure on one record is logged and counted without affecting the
// others; failed records stay pending. Only a failure to read the pending
// batch is returned as an error. Discovered links are not capped and not
// deduplicated across pages beyond the frontier existence check.
func (e *Engine) BulkCrawl(ctx context.Context) (BulkResult, error) {
	start := time.Now()

	batch, err := e.frontier.PendingBatch(ctx, e.bulkBatchSize)
	if err != nil {
		return BulkResult{}, fmt.Errorf("failed to get pending pages: %w", err)
	}

	e.logger.Info("starting bulk crawl",
		"pending", len(batch),
		"concurrency", e.concurrency,
	)

	var (
		mu     sync.Mutex
		result = BulkResult{Attempted: len(batch)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, page := range batch {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			default:
			}

			res, err := e.indexer.IndexAndSave(gctx, page)

			mu.Lock()
			defer mu.Unlock()
			result.LinksDiscovered += len(res.Links)
			result.LinksSaved += res.Saved
			var pageErr *PageError
			if errors.As(err, &pageErr) {
				result.Failed++
				e.logger.Warn("failed to index page", "id", page.ID, "url", page.URL, "error", err)
				// Returning nil keeps sibling tasks running.
				return nil
			}
			result.Indexed++
			if err != nil {
				e.logger.Warn("failed to save discovered links", "id", page.ID, "url", page.URL, "error", err)
			}
			return nil
		})
	}

	// Tasks never return errors, so Wait only synchronizes.
	_ = g.Wait()

	result.Duration = time.Since(start)
	e.logger.Info("bulk crawl completed",
		"attempted", result.Attempted,
		"indexed", result.Indexed,
		"failed", result.Failed,
		"links_saved", result.LinksSaved,
		"duration", result.Duration,
	)
	return result, nil
}
