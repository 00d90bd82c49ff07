package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pwc-dv/dvmap/internal/output"
)

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage",
		Short: "Show how many providers serve each stage",
		Long: `Show the share of providers assigned to each intercept stage, then list
the providers assigned to no stage at all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := fetchGrid(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(output.Header("Intercept Coverage", 80))
			cmd.Println()
			cmd.Print(output.RenderCoverage(g.Coverage(), 30))
			return nil
		},
	}
}
