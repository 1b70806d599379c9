package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// BillView is a bill joined with its customer's name and mobile. The
// customer fields are empty when the customer has been deleted.
type BillView struct {
	Bill
	CustomerName   string
	CustomerMobile string
}

// DailyTotals are the bill aggregates used by the daily report
type DailyTotals struct {
	Count      int64
	TotalSales decimal.Decimal
	TotalFine  decimal.Decimal
}

// Repository persists bills
type Repository interface {
	// Save inserts a bill with its line items
	Save(ctx context.Context, bill *Bill) error

	// FindByID finds a bill with its customer summary
	FindByID(ctx context.Context, id uuid.UUID) (*BillView, error)

	// FindAll lists bills newest first with customer name and mobile
	FindAll(ctx context.Context, filter shared.Filter) ([]BillView, error)

	// TotalsSince aggregates bills created at or after since
	TotalsSince(ctx context.Context, since time.Time) (DailyTotals, error)
}

// SequenceName is the counter row that numbers bills
const SequenceName = "bill_number"

// SequenceRepository hands out shop-wide numbers with an atomic
// fetch-and-increment inside the caller's transaction
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
