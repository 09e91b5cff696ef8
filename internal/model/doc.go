// Package model defines the core data structures used throughout linkspider.
//
// This package contains the following main types:
//   - Page: A crawl candidate or indexed web page stored in the frontier
//   - CrawlState: The crawl lifecycle of a Page (pending, locked, indexed)
//   - FrontierReport: A snapshot of the frontier used for report output
//
// Models live in their own package so that the frontier stores, the crawler
// and the report writers can share them without import cycles.
package model
