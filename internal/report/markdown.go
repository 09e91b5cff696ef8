package report

import (
	"io"
	"strconv"

	"github.com/nao1215/linkspider/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.FrontierReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStates(md, report)
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.FrontierReport) {
	md.H1("Linkspider Frontier Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Store", "`" + report.Store + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Total Records", strconv.Itoa(report.Stats.Total())},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStates(md *markdown.Markdown, report *model.FrontierReport) {
	md.H2("Crawl States")
	md.PlainText("")

	rows := make([][]string, 0, len(model.AllCrawlStates())+1)
	for _, state := range model.AllCrawlStates() {
		rows = append(rows, []string{stateLabel(state), strconv.Itoa(report.Stats.Count(state))})
	}
	rows = append(rows, []string{"Disabled", strconv.Itoa(report.Stats.Disabled)})

	md.Table(markdown.TableSet{
		Header: []string{"State", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Stats.Total() > 0 {
		w.writePieChart(md, report.Stats)
	}
	w.writeAlert(md, report.Stats)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats model.FrontierStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Crawl State Distribution"),
		piechart.WithShowData(true),
	)

	for _, state := range model.AllCrawlStates() {
		if n := stats.Count(state); n > 0 {
			chart.LabelAndIntValue(stateLabel(state), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, stats model.FrontierStats) {
	switch {
	case stats.Total() == 0:
		md.Note("The frontier is empty. Seed it with `linkspider seed URL`.")
	case stats.Pending == 0 && stats.Locked > 0:
		md.Warningf(
			"No pending records left and %d record(s) are locked. Run `linkspider unlock` to return them to the frontier.",
			stats.Locked,
		)
	case stats.Pending == 0:
		md.Tip("Every record has been indexed.")
	default:
		md.Importantf("%d record(s) are waiting to be crawled.", stats.Pending)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.FrontierReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Pages) == 0 {
		md.PlainText("No pages to show.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Pages))
	for i, p := range report.Pages {
		state := stateLabel(p.State)
		if p.AdminDisabled {
			state += " (disabled)"
		}
		rows[i] = []string{
			strconv.FormatInt(p.ID, 10),
			state,
			truncateString(p.URL, 60),
			truncateString(valueOrDash(p.Title), 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "State", "URL", "Title"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, p := range report.Pages {
		if p.Description != "" {
			md.Details(valueOrDash(p.Title), p.Description)
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [linkspider](https://github.com/nao1215/linkspider)*")
}
