package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkspider/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported report formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer writes a frontier report to its destination.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.FrontierReport) (int, error)
}

// NewWriter returns the Writer for format. version is embedded in the JSON
// output.
func NewWriter(format string, output io.Writer, version string) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version)), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// stateLabel returns the display name of a state, e.g. "Indexed".
// A Caser is not safe for concurrent use, so one is made per call.
func stateLabel(s model.CrawlState) string {
	return cases.Title(language.English).String(s.String())
}

// valueOrDash returns "-" for empty table cells.
func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
