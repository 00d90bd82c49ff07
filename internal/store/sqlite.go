package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/pwc-dv/dvmap/internal/database"
)

const createProviders = `
CREATE TABLE IF NOT EXISTS providers (
  id               INTEGER PRIMARY KEY,
  name             TEXT NOT NULL,
  contact          TEXT NOT NULL DEFAULT '',
  description      TEXT NOT NULL DEFAULT '',
  recipients       TEXT NOT NULL DEFAULT '',
  criteria         TEXT NOT NULL DEFAULT '',
  research_based   TEXT NOT NULL DEFAULT '',
  legally_mandated TEXT NOT NULL DEFAULT '',
  notes            TEXT NOT NULL DEFAULT '',
  intercept        TEXT NOT NULL DEFAULT '',
  gaps             TEXT NOT NULL DEFAULT '',
  extra            TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_providers_name ON providers(name);
`

const selectProviders = `
SELECT name, contact, description, recipients, criteria, research_based,
       legally_mandated, notes, intercept, gaps, extra
FROM providers
WHERE TRIM(name) <> ''
ORDER BY id`

// The first row carrying the name wins, as in the sheet backends.
const updateIntercept = `
UPDATE providers SET intercept = ?
WHERE id = (SELECT id FROM providers WHERE name = ? ORDER BY id LIMIT 1)`

// SQLiteStore keeps providers in a local SQLite database, one row per
// provider in sheet order.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// OpenSQLite opens an existing database file. A missing file is a
// *FetchError; use CreateSQLite to start a new one.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	return openSQLite(path, "rw", opts)
}

// CreateSQLite opens the database file, creating it when missing.
func CreateSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	return openSQLite(path, "rwc", opts)
}

func openSQLite(path, mode string, opts []Option) (*SQLiteStore, error) {
	options := applyOptions(opts)
	fail := func(err error) error {
		return &FetchError{Backend: "sqlite", Resource: path, Err: err}
	}

	dsn := "file:" + path + "?mode=" + mode + "&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fail(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fail(err)
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(createProviders); err != nil {
		db.Close()
		return nil, fail(err)
	}

	return &SQLiteStore{db: db, path: path, logger: options.logger}, nil
}

// Name returns the backend name.
func (s *SQLiteStore) Name() string {
	return "sqlite"
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FetchAll reads every provider record in insertion order.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]*database.Provider, error) {
	rows, err := s.db.QueryContext(ctx, selectProviders)
	if err != nil {
		return nil, s.fetchError(err)
	}
	defer rows.Close()

	var records []*database.Provider
	for rows.Next() {
		p := database.NewProvider("")
		var extra string
		if err := rows.Scan(&p.Name, &p.Contact, &p.Description, &p.Recipients,
			&p.Criteria, &p.ResearchBased, &p.LegallyMandated, &p.Notes,
			&p.Intercept, &p.Gaps, &extra); err != nil {
			return nil, s.fetchError(err)
		}
		if err := json.Unmarshal([]byte(extra), &p.Extra); err != nil {
			return nil, s.fetchError(fmt.Errorf("provider %q extra columns: %w", p.Name, err))
		}
		if p.Extra == nil {
			p.Extra = make(map[string]string)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fetchError(err)
	}

	s.logger.Debug("fetched providers",
		zap.String("backend", s.Name()),
		zap.String("path", s.path),
		zap.Int("count", len(records)),
	)
	return records, nil
}

// Update rewrites the intercept value of the first row with the name.
func (s *SQLiteStore) Update(ctx context.Context, cmd AssignCommand) error {
	if strings.TrimSpace(cmd.Provider) == "" {
		return &NotFoundError{Provider: cmd.Provider}
	}
	res, err := s.db.ExecContext(ctx, updateIntercept, cmd.Value(), cmd.Provider)
	if err != nil {
		return s.fetchError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fetchError(err)
	}
	if n == 0 {
		return &NotFoundError{Provider: cmd.Provider}
	}
	logUpdate(s.logger, s.Name(), cmd)
	return nil
}

// Import replaces the table contents with records, in order.
func (s *SQLiteStore) Import(ctx context.Context, records []*database.Provider) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return s.fetchError(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM providers`); err != nil {
		return s.fetchError(err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO providers (name, contact, description, recipients, criteria,
  research_based, legally_mandated, notes, intercept, gaps, extra)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return s.fetchError(err)
	}
	defer stmt.Close()

	for _, p := range records {
		extra, jerr := json.Marshal(p.Extra)
		if jerr != nil || p.Extra == nil {
			extra = []byte("{}")
		}
		if _, err = stmt.ExecContext(ctx, p.Name, p.Contact, p.Description,
			p.Recipients, p.Criteria, p.ResearchBased, p.LegallyMandated,
			p.Notes, p.Intercept, p.Gaps, string(extra)); err != nil {
			return s.fetchError(err)
		}
	}

	if err = tx.Commit(); err != nil {
		return s.fetchError(err)
	}
	s.logger.Info("imported providers",
		zap.String("backend", s.Name()),
		zap.String("path", s.path),
		zap.Int("count", len(records)),
	)
	return nil
}

func (s *SQLiteStore) fetchError(err error) error {
	return &FetchError{Backend: s.Name(), Resource: s.path, Err: err}
}
