package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/config"
	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/output"
	"github.com/pwc-dv/dvmap/internal/store"
)

func newImportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Seed a SQLite store from a CSV export",
		Long: `Copy every row of a provider CSV export into a SQLite database, creating
the database if needed. The target defaults to the configured store path when
the backend is sqlite, otherwise dvmap.db.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := database.LoadRecords(args[0])
			if err != nil {
				return err
			}

			if dbPath == "" {
				dbPath = "dvmap.db"
				if sess.cfg.DVMap.Store.Backend == config.BackendSQLite {
					dbPath = sess.cfg.StorePath(sess.baseDir)
				}
			}

			db, err := store.CreateSQLite(dbPath, store.WithLogger(sess.logger))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Import(cmd.Context(), records); err != nil {
				return err
			}
			sess.logger.Info("imported providers",
				zap.String("source", args[0]),
				zap.String("database", dbPath),
				zap.Int("rows", len(records)),
			)

			cmd.Printf("%s Imported %d providers into %s\n", output.Checkmark(true), len(records), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "target SQLite database")
	return cmd
}
