package rate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// Source records where a rate came from
type Source string

const (
	SourceManual Source = "Manual"
	SourceAPI    Source = "API"
)

// SilverRate is a point-in-time silver price. Rates are append-only and the
// newest one is the current rate.
type SilverRate struct {
	shared.BaseEntity
	Rate   decimal.Decimal
	Source Source
}

// NewSilverRate creates a rate observation
func NewSilverRate(value decimal.Decimal, source Source) (*SilverRate, error) {
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate must be greater than zero")
	}
	if source != SourceManual && source != SourceAPI {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Rate source must be Manual or API")
	}
	return &SilverRate{
		BaseEntity: shared.NewBaseEntity(),
		Rate:       value,
		Source:     source,
	}, nil
}

// Repository persists silver rates
type Repository interface {
	// Save appends a rate
	Save(ctx context.Context, rate *SilverRate) error

	// FindLatest returns the newest rate or shared.ErrNotFound
	FindLatest(ctx context.Context) (*SilverRate, error)

	// FindSince returns rates created at or after since, oldest first
	FindSince(ctx context.Context, since time.Time) ([]SilverRate, error)
}
