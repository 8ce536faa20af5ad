package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func generateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the current period's invoices for every active member",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.startContainer(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Orchestrator().GeneratePeriodInvoices(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d invoices generated for %s\n", result.GeneratedCount, result.Competency)
			return nil
		},
	}
}
