package interfaces

import (
	"context"
	"errors"

	"towdash/internal/models"
)

var (
	// ErrNotFound reports that no record exists for the requested tow id.
	// Every mutator surfaces it to the caller; there are no silent
	// no-ops.
	ErrNotFound = errors.New("tow record not found")

	// ErrConflict reports a conditional write that lost to a concurrent
	// writer. The caller re-reads and retries or surfaces the conflict.
	ErrConflict = errors.New("tow record revision conflict")
)

// DashboardRepository is the record store: one opaque JSON payload per
// tow id with a monotonic revision for conditional writes.
type DashboardRepository interface {
	// GetByID returns the record or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.TowRecord, error)

	// Insert creates a fresh record at revision 1.
	Insert(ctx context.Context, record *models.TowRecord) error

	// Update persists the record only if the stored revision still
	// equals expectedRevision, bumping revision and updated_at. Returns
	// ErrConflict when a concurrent writer got there first and
	// ErrNotFound when the record vanished.
	Update(ctx context.Context, record *models.TowRecord, expectedRevision int64) error

	// ScanAll returns every record in the store, tow or not; callers
	// filter by naming convention.
	ScanAll(ctx context.Context) ([]models.TowRecord, error)
}
