package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/output"
	"github.com/pwc-dv/dvmap/internal/store"
)

func newDetailCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "detail <provider>",
		Short: "Show a provider's descriptive fields",
		Long: `Show contact, services, recipients and the other descriptive fields of one
provider. The name must match exactly. Blank fields show as NA.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			g, records, err := fetchGrid(cmd.Context())
			if err != nil {
				return err
			}

			d, ok := database.Lookup(name, records)
			if !ok {
				return &store.NotFoundError{Provider: name}
			}

			cmd.Println(output.Header(name, 80))
			cmd.Println()
			cmd.Print(output.RenderDetail(d, width))

			labels := []string{}
			for _, s := range g.StagesOf(name) {
				labels = append(labels, output.Color(s.Label, output.StageColor(s.Code)))
			}
			if len(labels) == 0 {
				labels = append(labels, output.Color("none", output.Dim))
			}
			cmd.Printf("\nStages: %s\n", strings.Join(labels, ", "))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 60, "truncate values to this many characters (0 for no limit)")
	return cmd
}
