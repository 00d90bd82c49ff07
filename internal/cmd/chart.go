package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pwc-dv/dvmap/internal/chart"
	"github.com/pwc-dv/dvmap/internal/output"
)

func newChartCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Write the heatmap as a standalone HTML page",
		Long: `Render the provider x stage heatmap to an HTML file that opens in any
browser. Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := fetchGrid(cmd.Context())
			if err != nil {
				return err
			}
			opts := chart.OptionsFromConfig(sess.cfg.DVMap.Chart)

			if outFile == "-" {
				return chart.Render(cmd.OutOrStdout(), g, opts)
			}

			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outFile, err)
			}
			if err := chart.Render(f, g, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}

			cmd.Printf("%s Wrote %s (%d providers)\n", output.Checkmark(true), outFile, len(g.Providers))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "dvmap.html", "output file")
	return cmd
}
