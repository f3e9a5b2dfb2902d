package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recue/internal/catalog"
	"recue/internal/config"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var itemID int64

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run queued catalog items through fetch, convert, and embed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				runner := ctx.newRunner(cfg, store)
				if err := runner.Acquire(); err != nil {
					return err
				}
				defer runner.Release()

				if itemID > 0 {
					item, err := store.GetByID(cmd.Context(), itemID)
					if err != nil {
						return err
					}
					if err := runner.ProcessItem(cmd.Context(), item); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Item #%d finished as %s\n", item.ID, item.Status)
					return nil
				}

				processed, failed, err := runner.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %d item(s), %d failed\n", processed, failed)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&itemID, "item", 0, "Process a single catalog item instead of draining the queue")
	return cmd
}
