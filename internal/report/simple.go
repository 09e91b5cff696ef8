package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkspider/internal/model"
)

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// showEmpty prints the pages section even when no pages are listed.
	showEmpty bool

	// verbose prints page descriptions.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables printing of page descriptions.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in plain text.
func (w *SimpleWriter) Write(report *model.FrontierReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeStates(&sb, report)
	w.writePages(&sb, report)

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.FrontierReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     LINKSPIDER FRONTIER REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Store:          %s\n", report.Store)
	fmt.Fprintf(sb, "Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Total Records:  %d\n\n", report.Stats.Total())
}

func (w *SimpleWriter) writeStates(sb *strings.Builder, report *model.FrontierReport) {
	writeSection(sb, "CRAWL STATES")

	for _, state := range model.AllCrawlStates() {
		fmt.Fprintf(sb, "  %-9s %d\n", strings.ToUpper(state.String())+":", report.Stats.Count(state))
	}
	fmt.Fprintf(sb, "  %-9s %d\n\n", "DISABLED:", report.Stats.Disabled)
}

func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.FrontierReport) {
	if len(report.Pages) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "PAGES")

	if len(report.Pages) == 0 {
		sb.WriteString("  No pages\n\n")
		return
	}

	for _, p := range report.Pages {
		flag := ""
		if p.AdminDisabled {
			flag = " (disabled)"
		}
		fmt.Fprintf(sb, "  [%d] %-8s %s%s\n", p.ID, p.State, p.URL, flag)
		if p.Title != "" {
			fmt.Fprintf(sb, "      Title: %s\n", p.Title)
		}
		if w.verbose && p.Description != "" {
			fmt.Fprintf(sb, "      Description: %s\n", p.Description)
		}
	}
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
