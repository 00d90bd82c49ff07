// Package cmd provides the CLI commands for dvmap.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/config"
	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/logging"
	"github.com/pwc-dv/dvmap/internal/matrix"
	"github.com/pwc-dv/dvmap/internal/output"
	"github.com/pwc-dv/dvmap/internal/store"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

var (
	cfgFile string
	noColor bool
	verbose bool
)

// session is the state every command shares once the root pre-run has
// loaded the configuration.
type session struct {
	cfg     *config.Config
	baseDir string
	logger  *zap.Logger
}

var sess = &session{logger: zap.NewNop()}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:   "dvmap",
		Short: "Map domestic violence service providers to intercept stages",
		Long: `dvmap shows which Prince William County domestic violence service providers
operate at which stage of the Sequential Intercept Model, and lets staff
update those assignments.

The provider list lives in a CSV export, a SQLite database or a Google Sheet.
Settings come from .dvmap/config.yaml (or dvmap.yaml) and DVMAP_* environment
variables, e.g. DVMAP_STORE_BACKEND=sqlite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initSession(v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = sess.logger.Sync()
		},
	}

	// Global flags
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: .dvmap/config.yaml or dvmap.yaml)")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("backend", "", "store backend: csv, sqlite, sheets, memory")
	flags.String("store", "", "store path for the csv and sqlite backends")
	_ = v.BindPFlag("store.backend", flags.Lookup("backend"))
	_ = v.BindPFlag("store.path", flags.Lookup("store"))

	// Add subcommands
	root.AddCommand(
		newVersionCmd(),
		newGridCmd(),
		newCoverageCmd(),
		newDetailCmd(),
		newAssignCmd(),
		newCheckCmd(),
		newChartCmd(),
		newServeCmd(),
		newImportCmd(),
		newStagesCmd(),
	)

	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// initSession loads the configuration, applies environment and flag
// overrides and builds the logger.
func initSession(v *viper.Viper) error {
	if noColor {
		output.DisableColor()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, baseDir, err := loadConfig(cwd)
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(v); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.DVMap.Log.Level, verbose)
	if err != nil {
		return err
	}

	sess = &session{cfg: cfg, baseDir: baseDir, logger: logger}
	return nil
}

// loadConfig reads the --config file or discovers one from cwd. Relative
// store paths resolve against the project directory holding the config.
func loadConfig(cwd string) (*config.Config, string, error) {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, cwd, nil
	}

	path, err := config.FindConfig(cwd)
	if err != nil {
		return config.DefaultConfig(), cwd, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	dir := filepath.Dir(path)
	if filepath.Base(dir) == ".dvmap" {
		dir = filepath.Dir(dir)
	}
	return cfg, dir, nil
}

// openStore builds the configured backend. Callers close it with
// store.Close.
func openStore() (store.Store, error) {
	s, err := store.Open(sess.cfg, sess.baseDir, store.WithLogger(sess.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	sess.logger.Debug("store opened", zap.String("backend", s.Name()))
	return s, nil
}

// fetchAll opens the store, reads every record and closes it again.
func fetchAll(ctx context.Context) ([]*database.Provider, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close(s)

	return s.FetchAll(ctx)
}

// fetchGrid reads the store and builds the grid. Tokens that map to no
// stage are logged.
func fetchGrid(ctx context.Context) (*matrix.Grid, []*database.Provider, error) {
	records, err := fetchAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	g := matrix.FromRecords(records)
	for _, d := range g.Dropped {
		sess.logger.Debug("intercept value maps to no stage",
			zap.String("provider", d.Provider),
			zap.String("token", string(d.Token)),
		)
	}
	return g, records, nil
}

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// NewExitError creates an ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}
