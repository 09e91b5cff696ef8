package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/linkspider/internal/config"
	"github.com/nao1215/linkspider/internal/crawler"
	"github.com/nao1215/linkspider/internal/scheduler"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Index a batch of pending pages",
		Long: `Crawl takes up to --batch pending pages, indexes them concurrently and
queues every new link they contain.

With --cron (or --daemon, which uses crawl.schedule from the config file) the
crawl runs on a cron schedule until interrupted. A run that is still going
when the next one is due is skipped.

Examples:
  # One bulk crawl
  linkspider crawl

  # Every day at midnight
  linkspider crawl --cron "0 0 * * *"

  # Every 30 minutes, through Tor
  linkspider crawl --cron "@every 30m" --proxy 127.0.0.1:9050`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("batch", "b", config.DefaultBulkBatchSize, "Number of pending pages per crawl")
	cmd.Flags().Int("concurrency", 0, "Pages indexed in parallel (default: number of CPUs)")
	cmd.Flags().String("cron", "", "Run on this cron schedule until interrupted")
	cmd.Flags().BoolP("daemon", "d", false, "Run on the configured crawl.schedule until interrupted")
	addFetchFlags(cmd)

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	daemon, err := cmd.Flags().GetBool("daemon")
	if err != nil {
		return err
	}
	scheduled := daemon || cmd.Flags().Changed("cron")

	return withSession(cmd, func(ctx context.Context, s *session) error {
		engine, err := newEngine(s.cfg, s.store, s.logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !scheduled {
			result, err := engine.BulkCrawl(ctx)
			if err != nil {
				return err
			}
			printBulkResult(out, result)
			return nil
		}

		sched := scheduler.New(s.logger)
		err = sched.Add("bulk-crawl", s.cfg.Schedule, func(ctx context.Context) {
			result, err := engine.BulkCrawl(ctx)
			if err != nil {
				s.logger.Error("scheduled crawl failed", "error", err)
				return
			}
			printBulkResult(out, result)
		})
		if err != nil {
			return err
		}

		next, err := scheduler.Next(s.cfg.Schedule, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Crawling on schedule %q, next run at %s (Ctrl+C to stop)\n",
			s.cfg.Schedule, next.Format(time.RFC3339))
		return sched.Run(ctx)
	})
}

func printBulkResult(w io.Writer, r crawler.BulkResult) {
	fmt.Fprintf(w, "Crawled %d page(s) in %s: %d indexed, %d failed, %d link(s) found, %d queued\n",
		r.Attempted, r.Duration.Round(time.Millisecond), r.Indexed, r.Failed, r.LinksDiscovered, r.LinksSaved)
}
