package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists ledger entries
type Repository interface {
	// Append inserts a new entry. A duplicate (customer_id, sequence) pair
	// surfaces as a unique violation that the unit of work retries.
	Append(ctx context.Context, entry *Entry) error

	// FindLast returns the entry with the highest sequence for the customer,
	// or nil when the customer has no entries
	FindLast(ctx context.Context, customerID uuid.UUID) (*Entry, error)

	// FindByCustomer returns all entries of a customer by sequence ascending
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Entry, error)

	// DeleteByCustomer removes every entry of a customer
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
