package rate

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/rate"
)

// SetRateRequest records a manually entered rate
type SetRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// RateResponse is a silver rate per kilogram
type RateResponse struct {
	ID        string          `json:"id"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToRateResponse converts a domain rate to its response
func ToRateResponse(r *rate.SilverRate) RateResponse {
	return RateResponse{
		ID:        r.ID.String(),
		Rate:      r.Rate,
		Source:    string(r.Source),
		Timestamp: r.CreatedAt,
	}
}
