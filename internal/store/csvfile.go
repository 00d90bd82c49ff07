package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/database"
)

// CSVStore keeps the provider sheet in a local CSV export. Reads and
// read-modify-write updates are serialized so concurrent requests never see
// a half-written file or lose rows.
type CSVStore struct {
	mu     sync.Mutex
	path   string
	column int
	logger *zap.Logger
}

// NewCSVStore creates a store over the CSV file at path.
func NewCSVStore(path string, opts ...Option) *CSVStore {
	options := applyOptions(opts)
	return &CSVStore{
		path:   path,
		column: options.column,
		logger: options.logger,
	}
}

// Name returns the backend name.
func (c *CSVStore) Name() string {
	return "csv"
}

// Path returns the CSV file path.
func (c *CSVStore) Path() string {
	return c.path
}

// FetchAll reads every provider record from the file.
func (c *CSVStore) FetchAll(ctx context.Context) ([]*database.Provider, error) {
	c.mu.Lock()
	sheet, err := c.load(ctx)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	records, err := sheet.Records()
	if err != nil {
		return nil, c.fetchError(err)
	}
	c.logger.Debug("fetched providers",
		zap.String("backend", c.Name()),
		zap.String("path", c.path),
		zap.Int("count", len(records)),
	)
	return records, nil
}

// Update rewrites the file with one Intercept cell changed.
func (c *CSVStore) Update(ctx context.Context, cmd AssignCommand) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sheet, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err := updateSheet(sheet, cmd, c.column); err != nil {
		return err
	}
	if err := sheet.Save(c.path); err != nil {
		return c.fetchError(err)
	}
	logUpdate(c.logger, c.Name(), cmd)
	return nil
}

func (c *CSVStore) load(ctx context.Context) (*database.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.fetchError(err)
	}
	sheet, err := database.LoadSheet(c.path)
	if err != nil {
		return nil, c.fetchError(err)
	}
	return sheet, nil
}

func (c *CSVStore) fetchError(err error) error {
	return &FetchError{Backend: c.Name(), Resource: c.path, Err: err}
}
