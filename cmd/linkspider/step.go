package main

import (
	"context"
	"fmt"

	"github.com/nao1215/linkspider/internal/config"
	"github.com/spf13/cobra"
)

// NewStepCmd creates the step command.
func NewStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Crawl one pending page and its links",
		Long: `Step picks one pending page, indexes it, then indexes up to --link-limit of
the new pages it links to. The links found on the picked page are printed.

In legacy pick mode every pending page is locked by the pick, so only the
pages queued by this step remain pending afterwards. Use --pick-mode claim to
lock the processed page only, or "linkspider unlock" to release locked pages.`,
		Args: cobra.NoArgs,
		RunE: runStepCmd,
	}

	cmd.Flags().Int("link-limit", config.DefaultStepLinkLimit, "Maximum links indexed and printed")
	cmd.Flags().String("pick-mode", config.DefaultPickMode, "Selection mode: legacy or claim")
	addFetchFlags(cmd)

	return cmd
}

func runStepCmd(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		engine, err := newEngine(s.cfg, s.store, s.logger)
		if err != nil {
			return err
		}

		result, err := engine.SingleStep(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Page == nil {
			fmt.Fprintln(out, "No page crawled")
			return nil
		}

		fmt.Fprintf(out, "Crawled [%d] %s\n", result.Page.ID, result.Page.URL)
		fmt.Fprintf(out, "Title: %s\n", result.Page.Title)
		fmt.Fprintf(out, "%d link(s), %d new, %d indexed\n",
			len(result.Links), result.ChildrenCreated, result.ChildrenIndexed)
		for _, link := range result.Links {
			fmt.Fprintln(out, link)
		}
		return nil
	})
}
