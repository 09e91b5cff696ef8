package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/model"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find indexed pages whose description contains text",
		Long: `Search lists indexed, enabled pages whose meta description contains the
given text, ignoring case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				pages, err := s.store.Search(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printPages(cmd.OutOrStdout(), pages)
			})
		},
	}
	cmd.Flags().IntP("limit", "n", 50, "Maximum number of results (0 for all)")
	return cmd
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List frontier pages",
		Long: `List prints frontier pages in ID order, optionally restricted to one crawl
state (pending, locked or indexed).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := listFilterFromFlags(cmd)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				pages, err := s.store.List(ctx, filter)
				if err != nil {
					return err
				}
				return printPages(cmd.OutOrStdout(), pages)
			})
		},
	}
	cmd.Flags().StringP("state", "s", "", "Only pages in this state: pending, locked or indexed")
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of pages (0 for all)")
	cmd.Flags().Bool("newest", false, "Newest pages first")
	return cmd
}

func listFilterFromFlags(cmd *cobra.Command) (frontier.ListFilter, error) {
	var filter frontier.ListFilter

	state, err := cmd.Flags().GetString("state")
	if err != nil {
		return filter, err
	}
	if state != "" {
		st, err := model.ParseCrawlState(state)
		if err != nil {
			return filter, err
		}
		filter.State = &st
	}

	if filter.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return filter, err
	}
	if cmd.Flags().Lookup("newest") != nil {
		if filter.Newest, err = cmd.Flags().GetBool("newest"); err != nil {
			return filter, err
		}
	}
	return filter, nil
}

func printPages(w io.Writer, pages []*model.Page) error {
	if len(pages) == 0 {
		_, err := fmt.Fprintln(w, "No pages found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tURL\tTITLE")
	for _, p := range pages {
		state := p.State.String()
		if p.AdminDisabled {
			state += "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, state, p.URL, p.Title)
	}
	return tw.Flush()
}

// NewDisableCmd creates the disable command.
func NewDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Exclude a page from crawling and search",
		Long: `Disable marks a page as administratively disabled. Disabled pages are never
picked, do not count as known URLs and do not appear in search results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDisabled(cmd, args[0], true)
		},
	}
}

// NewEnableCmd creates the enable command.
func NewEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Re-enable a disabled page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDisabled(cmd, args[0], false)
		},
	}
}

func setDisabled(cmd *cobra.Command, rawID string, disabled bool) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if err := s.store.SetAdminDisabled(ctx, id, disabled); err != nil {
			return pageError(id, err)
		}
		verb := "Enabled"
		if disabled {
			verb = "Disabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s page %d\n", verb, id)
		return nil
	})
}

// NewUnlockCmd creates the unlock command.
func NewUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock [id]",
		Short: "Return locked pages to the pending set",
		Long: `Unlock moves a locked page back to pending so it can be crawled again.
Without an ID every locked page is released.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				id  int64
				err error
			)
			if len(args) == 1 {
				if id, err = parseID(args[0]); err != nil {
					return err
				}
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				out := cmd.OutOrStdout()
				if id == 0 {
					n, err := s.store.UnlockAll(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Unlocked %d page(s)\n", n)
					return nil
				}
				if err := s.store.Release(ctx, id); err != nil {
					return pageError(id, err)
				}
				fmt.Fprintf(out, "Unlocked page %d\n", id)
				return nil
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid page id %q: must be a positive integer", s)
	}
	return id, nil
}

func pageError(id int64, err error) error {
	if errors.Is(err, frontier.ErrNotFound) {
		return fmt.Errorf("page %d: %w", id, err)
	}
	return err
}
