package main

import (
	"fmt"
	"os"

	"github.com/nao1215/linkspider/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkspider.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkspider",
		Short: "Breadth-first web crawler with a persistent frontier",
		Long: `linkspider crawls the web starting from seed URLs.

Every discovered URL is stored in a frontier. Crawling a page extracts its
title and meta description and queues the links it contains. The frontier
lives in SQLite by default; PostgreSQL is supported for shared deployments.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .linkspider in current or home directory)")
	flags.String("store", config.DefaultStoreDriver, "Frontier store driver: sqlite, postgres or memory")
	flags.String("db-dir", config.XDGDataDir(), "Directory of the SQLite frontier database")
	flags.String("postgres-dsn", "", "PostgreSQL connection string for the postgres store")
	flags.String("log-format", config.DefaultLogFormat, "Log format: text or json")

	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewStepCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewDisableCmd())
	cmd.AddCommand(NewEnableCmd())
	cmd.AddCommand(NewUnlockCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
