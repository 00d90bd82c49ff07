// Package store reads provider records from, and writes intercept
// assignments back to, the tabular store that holds the provider sheet.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/intercept"
)

// InterceptColumn is the 1-based position of the Intercept column in the
// provider sheet ("I"). Writes address the column by position, not header.
const InterceptColumn = 9

// Store is the remote (or local) tabular store of provider records.
type Store interface {
	// Name returns the backend name (e.g., "csv", "sheets")
	Name() string

	// FetchAll reads every provider record. Rows with a blank name are
	// skipped.
	FetchAll(ctx context.Context) ([]*database.Provider, error)

	// Update overwrites the Intercept cell of the first row whose name
	// equals cmd.Provider exactly. No row is written when none matches.
	Update(ctx context.Context, cmd AssignCommand) error
}

// AssignCommand replaces the stage set of one provider.
type AssignCommand struct {
	ID       uuid.UUID
	Provider string
	Stages   intercept.Set
}

// NewAssignCommand creates a command with a fresh ID for log correlation.
func NewAssignCommand(provider string, stages intercept.Set) AssignCommand {
	if stages == nil {
		stages = intercept.NewSet()
	}
	return AssignCommand{
		ID:       uuid.New(),
		Provider: provider,
		Stages:   stages,
	}
}

// Value returns the cell value the command writes, e.g. "2,4".
func (c AssignCommand) Value() string {
	return c.Stages.String()
}

var (
	// ErrFetch matches any *FetchError.
	ErrFetch = errors.New("store unavailable")

	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("provider not found")
)

// FetchError reports that the store, or the named resource in it, could
// not be read or written.
type FetchError struct {
	Backend  string
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s store %q: %v", e.Backend, e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFetch) hold for every FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// NotFoundError reports that no row carries the provider name.
type NotFoundError struct {
	Provider string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("provider %q not found", e.Provider)
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
