package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recue/internal/catalog"
	"recue/internal/config"
	"recue/internal/language"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and manage the processing catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCatalogListCommand(ctx))
	cmd.AddCommand(newCatalogShowCommand(ctx))
	cmd.AddCommand(newCatalogRemoveCommand(ctx))
	cmd.AddCommand(newCatalogRetryCommand(ctx))
	return cmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]catalog.Status, 0, len(statusFilters))
			for _, raw := range statusFilters {
				value := strings.ToLower(strings.TrimSpace(raw))
				if !catalog.ValidStatus(value) {
					return fmt.Errorf("unknown status %q (valid: %s)", raw, statusNames())
				}
				statuses = append(statuses, catalog.Status(value))
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				colorize := stdoutIsTerminal()
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						decorateStatus(item.Status, colorize),
						item.Label(),
						item.VideoID,
						strconv.Itoa(len(item.OutputTracks)),
						item.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Status", "Title", "Video ID", "Tracks", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Only show items in the given status(es)")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog item in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Item #%d\n", item.ID)
				fmt.Fprintf(out, "  Status:     %s\n", decorateStatus(item.Status, stdoutIsTerminal()))
				if item.Title != "" {
					fmt.Fprintf(out, "  Title:      %s\n", item.Title)
				}
				if item.Uploader != "" {
					fmt.Fprintf(out, "  Uploader:   %s\n", item.Uploader)
				}
				if item.UploadDate != "" {
					fmt.Fprintf(out, "  Uploaded:   %s\n", item.UploadDate)
				}
				if item.VideoID != "" {
					fmt.Fprintf(out, "  Video ID:   %s\n", item.VideoID)
				}
				if item.URL != "" {
					fmt.Fprintf(out, "  URL:        %s\n", item.URL)
				}
				if item.MediaPath != "" {
					fmt.Fprintf(out, "  Media:      %s\n", item.MediaPath)
				}
				if item.SourceTrack != "" {
					fmt.Fprintf(out, "  Source:     %s\n", item.SourceTrack)
				}
				for _, track := range item.OutputTracks {
					tag := language.TrackTag(track, cfg.Download.SubtitleLanguages)
					fmt.Fprintf(out, "  Output:     %s (%s)\n", filepath.Base(track), language.TagDisplay(tag))
				}
				if item.ErrorMessage != "" {
					fmt.Fprintf(out, "  Error:      %s\n", item.ErrorMessage)
				}
				fmt.Fprintf(out, "  Created:    %s\n", item.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "  Updated:    %s\n", item.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}
	return cmd
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("item #%d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed item #%d\n", id)
				return nil
			})
		},
	}
	return cmd
}

func newCatalogRetryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry <id>",
		Short: "Reset a failed or review item so processing can try again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !item.Status.Terminal() || item.Status == catalog.StatusCompleted {
					return fmt.Errorf("item #%d is %s and cannot be retried", id, item.Status)
				}

				item.Status = retryStatus(item)
				item.ErrorMessage = ""
				if err := store.Update(cmd.Context(), item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item #%d reset to %s\n", id, item.Status)
				return nil
			})
		},
	}
	return cmd
}

func statusNames() string {
	statuses := catalog.Statuses()
	names := make([]string, len(statuses))
	for i, status := range statuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}

// retryStatus rewinds an item to the earliest stage whose inputs it still
// has on hand.
func retryStatus(item *catalog.Item) catalog.Status {
	switch {
	case item.SourceTrack != "" && len(item.OutputTracks) > 0:
		return catalog.StatusConverted
	case item.MediaPath != "" && item.SourceTrack != "":
		return catalog.StatusFetched
	default:
		return catalog.StatusPending
	}
}
