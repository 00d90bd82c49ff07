package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/intercept"
	"github.com/pwc-dv/dvmap/internal/matrix"
	"github.com/pwc-dv/dvmap/internal/output"
	"github.com/pwc-dv/dvmap/internal/store"
)

func newAssignCmd() *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "assign <provider> [codes...]",
		Short: "Replace the stages a provider is assigned to",
		Long: `Replace a provider's intercept stages with the given codes, then read the
store back and print the stored row.

Codes are 1-6 and may be given as separate arguments or a comma list:
    dvmap assign "Acme Shelter" 1 3
    dvmap assign "Acme Shelter" 1,3
    dvmap assign "Acme Shelter" --clear`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			codes := args[1:]

			if clearAll && len(codes) > 0 {
				return errors.New("--clear takes no stage codes")
			}
			if !clearAll && len(codes) == 0 {
				return errors.New("no stage codes given (use --clear to remove every stage)")
			}

			stages, err := intercept.ParseCodes(codes...)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close(s)

			assign := store.NewAssignCommand(name, stages)
			if err := s.Update(cmd.Context(), assign); err != nil {
				return err
			}

			// Read back to show what the store now holds.
			records, err := s.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			g := matrix.FromRecords(records)
			if !g.Has(name) {
				return &store.NotFoundError{Provider: name}
			}
			sess.logger.Debug("assignment read back",
				zap.String("command_id", assign.ID.String()),
				zap.Int("stages", len(g.StagesOf(name))),
			)

			row := matrix.Build([]string{name}, g.Stages, map[string]intercept.Set{name: stageSet(g, name)})
			cmd.Printf("%s Updated %s: %q\n\n", output.Checkmark(true), name, assign.Value())
			cmd.Print(output.RenderGrid(row))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every stage from the provider")
	return cmd
}

func stageSet(g *matrix.Grid, name string) intercept.Set {
	set := intercept.NewSet()
	for _, s := range g.StagesOf(name) {
		set.Add(s.Code)
	}
	return set
}
