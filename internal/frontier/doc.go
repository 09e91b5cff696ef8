// Package frontier defines the record store consumed by the crawl engine.
//
// The engine only needs the five operations of Frontier: an existence check,
// an upsert, a pending-batch query, and two ways of selecting a single
// candidate. Store adds the administrative operations used by the CLI
// (lookup, enable/disable, unlock, search, listing and statistics).
//
// # Implementations
//
//   - memory: in-process store for tests and one-off runs
//   - sqlite: single-file store built on modernc.org/sqlite (default)
//   - postgres: shared store built on github.com/lib/pq
//
// All implementations pass the conformance suite in package frontiertest.
//
// # Selection
//
// PickOneAndLock reproduces the legacy frontier behaviour: the first pending
// record is returned and every pending record, the returned one included,
// moves to model.StateLocked in one atomic step. Records that were locked
// but not returned are never unlocked by the engine, so repeated calls
// starve the frontier. Release and UnlockAll repair this explicitly.
//
// Claim is the queue-like alternative: it locks and returns only the first
// pending record, so repeated callers receive disjoint work.
package frontier
