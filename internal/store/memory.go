package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pwc-dv/dvmap/internal/database"
)

// MemoryStore holds the provider sheet in memory. Writes follow the same
// positional rules as the file and spreadsheet backends.
type MemoryStore struct {
	mu     sync.Mutex
	sheet  *database.Sheet
	column int
	logger *zap.Logger

	// Writes counts successful updates.
	Writes int
}

// NewMemoryStore creates a store over a copy of sheet. A nil sheet starts
// empty with the standard header.
func NewMemoryStore(sheet *database.Sheet, opts ...Option) *MemoryStore {
	options := applyOptions(opts)
	if sheet == nil {
		sheet = database.NewSheet()
	}
	return &MemoryStore{
		sheet:  sheet.Clone(),
		column: options.column,
		logger: options.logger,
	}
}

// NewMemoryStoreFromRecords creates a store holding the records in the
// standard layout.
func NewMemoryStoreFromRecords(records []*database.Provider, opts ...Option) *MemoryStore {
	return NewMemoryStore(database.NewSheetFromRecords(records), opts...)
}

// Name returns the backend name.
func (m *MemoryStore) Name() string {
	return "memory"
}

// FetchAll reads every provider record.
func (m *MemoryStore) FetchAll(ctx context.Context) ([]*database.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Backend: m.Name(), Resource: "memory", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := m.sheet.Records()
	if err != nil {
		return nil, &FetchError{Backend: m.Name(), Resource: "memory", Err: err}
	}
	return records, nil
}

// Update rewrites one provider's Intercept cell.
func (m *MemoryStore) Update(ctx context.Context, cmd AssignCommand) error {
	if err := ctx.Err(); err != nil {
		return &FetchError{Backend: m.Name(), Resource: "memory", Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := updateSheet(m.sheet, cmd, m.column); err != nil {
		return err
	}
	m.Writes++
	logUpdate(m.logger, m.Name(), cmd)
	return nil
}

// Sheet returns a copy of the current sheet.
func (m *MemoryStore) Sheet() *database.Sheet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sheet.Clone()
}

// updateSheet writes cmd into the first row named cmd.Provider.
func updateSheet(sheet *database.Sheet, cmd AssignCommand, column int) error {
	row := sheet.FindRow(cmd.Provider)
	if cmd.Provider == "" || row < 0 {
		return &NotFoundError{Provider: cmd.Provider}
	}
	return sheet.SetCell(row, column, cmd.Value())
}

func logUpdate(logger *zap.Logger, backend string, cmd AssignCommand) {
	logger.Info("updated intercepts",
		zap.String("backend", backend),
		zap.String("command_id", cmd.ID.String()),
		zap.String("provider", cmd.Provider),
		zap.String("value", cmd.Value()),
	)
}
