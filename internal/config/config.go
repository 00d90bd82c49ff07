// Package config provides configuration management for dvmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the dvmap configuration.
type Config struct {
	DVMap DVMapConfig `yaml:"dvmap"`
}

// DVMapConfig contains the main dvmap settings.
type DVMapConfig struct {
	// Store selects and addresses the provider sheet.
	Store StoreConfig `yaml:"store"`

	// Server configures the dashboard HTTP server.
	Server ServerConfig `yaml:"server"`

	// Chart configures the heatmap page.
	Chart ChartConfig `yaml:"chart"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// Store backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

// StoreConfig contains provider store settings.
type StoreConfig struct {
	Backend         string        `yaml:"backend"`
	Path            string        `yaml:"path"`
	Spreadsheet     string        `yaml:"spreadsheet"`
	Sheet           string        `yaml:"sheet"`
	InterceptColumn int           `yaml:"intercept_column"`
	TokenEnv        string        `yaml:"token_env"`
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	RetryMax        int           `yaml:"retry_max"`
}

// ServerConfig contains dashboard server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ChartConfig contains heatmap settings.
type ChartConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	RowHeight int    `yaml:"row_height"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DVMap: DVMapConfig{
			Store: StoreConfig{
				Backend:         BackendCSV,
				Path:            "dv_intercepts_cleaned.csv",
				Sheet:           "Sheet1",
				InterceptColumn: 9,
				TokenEnv:        "DVMAP_SHEETS_TOKEN",
				BaseURL:         "https://sheets.googleapis.com/v4",
				Timeout:         30 * time.Second,
				RetryMax:        0,
			},
			Server: ServerConfig{
				Addr: ":8080",
			},
			Chart: ChartConfig{
				Title:     "DV Map -- Prince William County",
				Width:     800,
				RowHeight: 28,
			},
			Log: LogConfig{
				Level: "info",
			},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	// Check common locations
	candidates := []string{
		".dvmap/config.yaml",
		"dvmap.yaml",
		"dvmap.yml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no dvmap configuration found")
}

// LoadFromDir loads configuration from the given directory.
func LoadFromDir(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		// Return default config if no config file found
		return DefaultConfig(), nil
	}

	return Load(path)
}

// EnvPrefix prefixes every environment override, e.g. DVMAP_STORE_BACKEND.
const EnvPrefix = "DVMAP"

// NewViper returns a viper instance that resolves dotted config keys
// ("store.backend") from DVMAP_* environment variables. Callers may bind
// command flags to the same keys.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (by environment or bound flag)
// over the file values.
func (c *Config) ApplyOverrides(v *viper.Viper) error {
	s := &c.DVMap.Store
	strs := map[string]*string{
		"store.backend":     &s.Backend,
		"store.path":        &s.Path,
		"store.spreadsheet": &s.Spreadsheet,
		"store.sheet":       &s.Sheet,
		"store.token_env":   &s.TokenEnv,
		"store.base_url":    &s.BaseURL,
		"server.addr":       &c.DVMap.Server.Addr,
		"chart.title":       &c.DVMap.Chart.Title,
		"log.level":         &c.DVMap.Log.Level,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	ints := map[string]*int{
		"store.intercept_column": &s.InterceptColumn,
		"store.retry_max":        &s.RetryMax,
		"chart.width":            &c.DVMap.Chart.Width,
		"chart.row_height":       &c.DVMap.Chart.RowHeight,
	}
	for key, dst := range ints {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	if v.IsSet("store.timeout") {
		s.Timeout = v.GetDuration("store.timeout")
	}

	return c.Validate()
}

// Validate checks the settings a store needs to open.
func (c *Config) Validate() error {
	s := c.DVMap.Store
	switch s.Backend {
	case BackendCSV, BackendSQLite:
		if s.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", s.Backend)
		}
	case BackendSheets:
		if s.Spreadsheet == "" {
			return fmt.Errorf("store.spreadsheet is required for the sheets backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want csv, sqlite, sheets or memory)", s.Backend)
	}
	if s.InterceptColumn < 1 {
		return fmt.Errorf("store.intercept_column must be >= 1, got %d", s.InterceptColumn)
	}
	return nil
}

// StorePath returns the resolved store path. A leading ~ is expanded to the
// home directory; relative paths are joined to baseDir.
func (c *Config) StorePath(baseDir string) string {
	path := c.DVMap.Store.Path
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
