package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwc-dv/dvmap/internal/output"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report intercept values that map to no stage",
		Long: `Check every provider's Intercept field for values outside the stage table
(1-6). Such values are ignored by the grid and the chart.

Exit codes:
  0  Every value maps to a stage
  1  Unknown values present`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := fetchGrid(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(output.Header("Intercept Check", 80))
			cmd.Println()
			cmd.Print(output.RenderUnknown(g.Dropped))

			cov := g.Coverage()
			if n := len(cov.Unassigned); n > 0 {
				cmd.Printf("\n%s %d of %d providers have no stage\n",
					output.Color("[WARN]", output.Yellow), n, cov.Total)
			}

			if len(g.Dropped) > 0 {
				return NewExitError(1, fmt.Sprintf("%d intercept values map to no stage", len(g.Dropped)))
			}
			return nil
		},
	}
}
