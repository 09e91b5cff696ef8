// Package extract pulls crawl metadata out of raw page content.
//
// # Components
//
//   - Title and Description: metadata extraction by delimiter search
//   - Links: href discovery, filtering, resolution and deduplication
//   - DomainOf: scheme and host of an absolute URL
//
// Extraction works on the raw text rather than a parsed DOM. The title is
// returned exactly as it appears between the delimiters, inner markup
// included, and only double-quoted href attributes are discovered.
//
// # Failure severities
//
// A missing title is a hard failure: the page is not treated as a proper
// page and callers abort indexing. A missing or malformed description is a
// soft failure: Description returns an empty string together with an error
// the caller logs and otherwise ignores.
package extract
