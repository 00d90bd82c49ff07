package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pwc-dv/dvmap/internal/config"
	"github.com/pwc-dv/dvmap/internal/database"
)

// ReadIntercept loads the CSV sheet at path and returns the raw Intercept
// cell of the named provider. It fails the test when the provider is absent.
func ReadIntercept(t *testing.T, path, name string) string {
	t.Helper()

	records, err := database.LoadRecords(path)
	if err != nil {
		t.Fatalf("Failed to load sheet: %v", err)
	}
	p := database.Find(name, records)
	if p == nil {
		t.Fatalf("Provider %q not found in %s", name, path)
	}
	return p.Intercept
}

// ProviderOption configures a test provider.
type ProviderOption func(*database.Provider)

// NewTestProvider creates a provider for testing with optional configuration.
func NewTestProvider(name string, opts ...ProviderOption) *database.Provider {
	p := database.NewProvider(name)
	p.Contact = "Contact for " + name
	p.Description = "Services offered by " + name
	p.Recipients = "Adults"

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithIntercept sets the raw Intercept field.
func WithIntercept(raw string) ProviderOption {
	return func(p *database.Provider) {
		p.Intercept = raw
	}
}

// WithNotes sets the Notes field.
func WithNotes(notes string) ProviderOption {
	return func(p *database.Provider) {
		p.Notes = notes
	}
}

// WithField sets any field by name.
func WithField(f database.Field, value string) ProviderOption {
	return func(p *database.Provider) {
		p.SetValue(f, value)
	}
}

// ConfigOption configures a test config.
type ConfigOption func(*config.Config)

// NewTestConfig creates a config for testing with optional configuration.
func NewTestConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithStore selects the backend and its path.
func WithStore(backend, path string) ConfigOption {
	return func(c *config.Config) {
		c.DVMap.Store.Backend = backend
		c.DVMap.Store.Path = path
	}
}

// WithSheets points the config at a Sheets API endpoint.
func WithSheets(baseURL, spreadsheet, sheet, tokenEnv string) ConfigOption {
	return func(c *config.Config) {
		c.DVMap.Store.Backend = config.BackendSheets
		c.DVMap.Store.BaseURL = baseURL
		c.DVMap.Store.Spreadsheet = spreadsheet
		c.DVMap.Store.Sheet = sheet
		c.DVMap.Store.TokenEnv = tokenEnv
	}
}

// TempProject creates a temporary directory with a .dvmap directory.
// Returns the directory path and a cleanup function.
func TempProject(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "dvmap-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, ".dvmap"), 0755); err != nil {
		os.RemoveAll(dir)
		t.Fatalf("Failed to create .dvmap directory: %v", err)
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

// TempProjectWithConfig creates a temp project with a config file.
func TempProjectWithConfig(t *testing.T, cfg *config.Config) (string, func()) {
	t.Helper()

	dir, cleanup := TempProject(t)

	configPath := filepath.Join(dir, ".dvmap", "config.yaml")
	if err := cfg.Save(configPath); err != nil {
		cleanup()
		t.Fatalf("Failed to write config: %v", err)
	}

	return dir, cleanup
}

// TempProjectWithSheet creates a temp project holding the providers in the
// default CSV export.
func TempProjectWithSheet(t *testing.T, providers []*database.Provider) (string, func()) {
	t.Helper()

	dir, cleanup := TempProject(t)

	path := filepath.Join(dir, database.DefaultSheetFile)
	if err := database.NewSheetFromRecords(providers).Save(path); err != nil {
		cleanup()
		t.Fatalf("Failed to write sheet: %v", err)
	}

	return dir, cleanup
}

// TempProjectFull creates a temp project with both config and sheet.
func TempProjectFull(t *testing.T, cfg *config.Config, providers []*database.Provider) (string, func()) {
	t.Helper()

	dir, cleanup := TempProjectWithSheet(t, providers)

	configPath := filepath.Join(dir, ".dvmap", "config.yaml")
	if err := cfg.Save(configPath); err != nil {
		cleanup()
		t.Fatalf("Failed to write config: %v", err)
	}

	return dir, cleanup
}

// SampleProviders returns a set of sample providers covering every shape
// of the raw Intercept field.
func SampleProviders() []*database.Provider {
	return []*database.Provider{
		NewTestProvider("Acme Shelter", WithIntercept("1,3")),
		NewTestProvider("Beta Hotline", WithIntercept(""), WithNotes("Call first")),
		NewTestProvider("county court advocates", WithIntercept("2, 4")),
		NewTestProvider("Delta Reentry", WithIntercept("56")),
		NewTestProvider("Echo Counseling", WithIntercept("x")),
	}
}
