// Package report renders frontier reports.
//
// Writers for the supported formats:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a mermaid
//     pie chart of the crawl state distribution
//
// NewWriter selects a writer by format name.
package report
