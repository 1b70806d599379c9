package inventory

import (
	"context"

	"github.com/silverledger/backend/internal/domain/shared"
)

// Repository persists stock movements
type Repository interface {
	// Append inserts a movement. A duplicate (item_name, sequence) pair
	// surfaces as a unique violation that the unit of work retries.
	Append(ctx context.Context, movement *Movement) error

	// FindLast returns the highest-sequence movement for the item, or nil
	FindLast(ctx context.Context, itemName string) (*Movement, error)

	// FindAll lists movements newest first, optionally for one item
	FindAll(ctx context.Context, itemName string, filter shared.Filter) ([]Movement, error)

	// Summaries aggregates all movements per item, sorted by item name
	Summaries(ctx context.Context) ([]Summary, error)
}
