package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/linkspider/internal/model"
	"github.com/nao1215/linkspider/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise the frontier",
		Long: `Report prints the number of pages per crawl state and the most recently
added pages.

Examples:
  linkspider report
  linkspider report --format markdown -o frontier.md
  linkspider report --format json --state indexed -n 100`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("format", "f", report.FormatText, "Report format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("state", "s", "", "Only list pages in this state")
	cmd.Flags().IntP("limit", "n", 20, "Number of pages listed (0 for all)")

	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	filter, err := listFilterFromFlags(cmd)
	if err != nil {
		return err
	}
	filter.Newest = true

	return withSession(cmd, func(ctx context.Context, s *session) error {
		stats, err := s.store.Stats(ctx)
		if err != nil {
			return err
		}
		pages, err := s.store.List(ctx, filter)
		if err != nil {
			return err
		}

		out, closeOut, err := createOutput(cmd, s.cfg.ReportFile)
		if err != nil {
			return err
		}
		w, err := report.NewWriter(s.cfg.ReportFormat, out, getVersion())
		if err != nil {
			return errors.Join(err, closeOut())
		}

		if _, err := w.Write(model.NewFrontierReport(s.cfg.StoreDriver, stats, pages)); err != nil {
			return errors.Join(fmt.Errorf("failed to write report: %w", err), closeOut())
		}
		if err := closeOut(); err != nil {
			return err
		}
		if s.cfg.ReportFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", s.cfg.ReportFile)
		}
		return nil
	})
}
