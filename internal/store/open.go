package store

import (
	"fmt"
	"io"

	"github.com/pwc-dv/dvmap/internal/config"
)

// Open builds the backend selected by the configuration. Relative paths are
// resolved against baseDir.
func Open(cfg *config.Config, baseDir string, opts ...Option) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := cfg.DVMap.Store
	opts = append([]Option{WithInterceptColumn(s.InterceptColumn)}, opts...)

	switch s.Backend {
	case config.BackendCSV:
		return NewCSVStore(cfg.StorePath(baseDir), opts...), nil
	case config.BackendSQLite:
		db, err := OpenSQLite(cfg.StorePath(baseDir), opts...)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendSheets:
		sheets, err := NewSheetsStore(SheetsConfig{
			BaseURL:     s.BaseURL,
			Spreadsheet: s.Spreadsheet,
			Sheet:       s.Sheet,
			TokenEnv:    s.TokenEnv,
			Timeout:     s.Timeout,
			RetryMax:    s.RetryMax,
		}, opts...)
		if err != nil {
			return nil, err
		}
		return sheets, nil
	case config.BackendMemory:
		return NewMemoryStore(nil, opts...), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", s.Backend)
	}
}

// Close releases the store if it holds resources.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
