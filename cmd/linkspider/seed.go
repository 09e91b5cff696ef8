package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/nao1215/linkspider/internal/crawler"
	"github.com/spf13/cobra"
)

// errNoSeeds is returned when seed has neither arguments nor configured seeds.
var errNoSeeds = errors.New("no seed URLs: pass them as arguments or list them under seeds in the config file")

// NewSeedCmd creates the seed command.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [url...]",
		Short: "Add URLs to the frontier as pending pages",
		Long: `Seed saves each URL as a pending page unless the frontier already knows it.

Without arguments the seeds listed in the config file are used.

Examples:
  linkspider seed https://example.com/ https://example.org/`,
		Args: cobra.ArbitraryArgs,
		RunE: runSeedCmd,
	}
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		urls := args
		if len(urls) == 0 {
			urls = s.cfg.Seeds
		}
		if len(urls) == 0 {
			return errNoSeeds
		}
		for _, u := range urls {
			if err := validateSeed(u); err != nil {
				return err
			}
		}

		ix := crawler.NewIndexer(s.store, nil, crawler.WithIndexerLogger(s.logger))
		saved, err := ix.SaveLinks(ctx, urls)
		if err != nil {
			return fmt.Errorf("failed to save seeds: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queued %d of %d URL(s)\n", saved, len(urls))
		return nil
	})
}

// validateSeed accepts absolute http and https URLs only.
func validateSeed(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid seed %q: expected an absolute http or https URL", raw)
	}
	return nil
}
