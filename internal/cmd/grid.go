package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pwc-dv/dvmap/internal/output"
)

func newGridCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the provider x stage assignment matrix",
		Long: `Print one row per provider and one column per intercept stage, marking
the stages each provider is assigned to.

Examples:
    dvmap grid                     # Terminal table
    dvmap grid --format csv        # Spreadsheet-friendly export
    dvmap grid --format json       # Cells, coverage and unknown values`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			g, _, err := fetchGrid(cmd.Context())
			if err != nil {
				return err
			}
			return output.WriteGrid(cmd.OutOrStdout(), g, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, csv, markdown")
	return cmd
}
