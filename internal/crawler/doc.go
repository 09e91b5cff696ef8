// Package crawler implements the crawl engine: indexing one page and the two
// orchestration modes built on it.
//
// # Components
//
//   - Indexer: fetch, extract metadata, persist, discover links
//   - Engine.BulkCrawl: index a batch of pending records concurrently
//   - Engine.SingleStep: pick one record, index it, then index its new
//     children synchronously
//
// All state is shared through the frontier store passed to NewIndexer and
// NewEngine. The engine never escalates a per-page failure: fetch failures,
// missing titles and malformed URLs are logged and the affected record is
// left for a later run.
//
// # Duplicate discovery
//
// Saving discovered links checks existence and then inserts, without a
// transaction. Two pages that link to the same new URL and are indexed
// concurrently can both insert it, so the frontier may hold duplicate
// pending records.
//
// # Usage
//
//	ix := crawler.NewIndexer(store, fetch)
//	engine := crawler.NewEngine(store, ix, crawler.WithConcurrency(8))
//	result, err := engine.BulkCrawl(ctx)
package crawler
