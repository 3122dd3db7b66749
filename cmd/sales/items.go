package main

import (
	"github.com/spf13/cobra"

	"restaurant-dashboard/internal/format"
	"restaurant-dashboard/internal/report"
)

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List the items and the date span of the source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}

			span, ok := store.Span()
			p := report.NewPrinter(cmd.OutOrStdout(), format.New(opts.currency), opts.noColor)
			return p.Catalogue(store.Items(), span, ok)
		},
	}
}
