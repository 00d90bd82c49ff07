package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pwc-dv/dvmap/internal/intercept"
	"github.com/pwc-dv/dvmap/internal/output"
)

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the intercept stages and their codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Print(output.RenderStages(intercept.Stages()))
			return nil
		},
	}
}
