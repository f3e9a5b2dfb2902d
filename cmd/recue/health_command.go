package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recue/internal/catalog"
	"recue/internal/config"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that every pipeline stage has what it needs to run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				runner := ctx.newRunner(cfg, store)
				checks := runner.HealthCheck(cmd.Context())

				rows := make([][]string, 0, len(checks))
				allReady := true
				for _, check := range checks {
					state := "ready"
					if !check.Ready {
						state = "unavailable"
						allReady = false
					}
					rows = append(rows, []string{check.Name, state, check.Detail})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Stage", "State", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				if !allReady {
					return fmt.Errorf("one or more stages are unavailable")
				}
				return nil
			})
		},
	}
	return cmd
}
