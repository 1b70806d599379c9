package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/shared"
)

// Repository defines the interface for customer persistence
type Repository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate finds a customer and row-locks it for the rest of the
	// surrounding transaction (SELECT ... FOR UPDATE where supported)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll finds customers matching the filter. Filter.Search matches
	// name or mobile case-insensitively.
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindWithPositiveBalance finds customers owing money, largest balance first
	FindWithPositiveBalance(ctx context.Context) ([]Customer, error)

	// CountCreatedSince counts customers created at or after since
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)

	// ListIDs returns the ids of every customer
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save inserts a new customer
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock writes a changed customer with optimistic locking.
	// The caller must have incremented the version; the stored row must still
	// be at Version-1, otherwise shared.ErrConcurrencyConflict is returned.
	SaveWithLock(ctx context.Context, customer *Customer) error

	// Delete removes a customer, returning shared.ErrNotFound when absent
	Delete(ctx context.Context, id uuid.UUID) error
}
