package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

const (
	finePlaces   int32 = 3
	amountPlaces int32 = 2
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultTolerance is the largest accepted difference between a derived
	// figure sent by a client and the server-side recomputation
	DefaultTolerance = decimal.RequireFromString("0.01")
)

// LineItemInput carries the raw figures for one bill line. Fine and Amount are
// optional client-side computations that are checked, never trusted.
type LineItemInput struct {
	Description  string
	Quantity     int
	Weight       decimal.Decimal
	Touch        decimal.Decimal
	Rate         decimal.Decimal
	MakingCharge decimal.Decimal
	Fine         *decimal.Decimal
	Amount       *decimal.Decimal
}

// LineItem is one priced line of a bill
type LineItem struct {
	Description  string
	Quantity     int
	Weight       decimal.Decimal
	Touch        decimal.Decimal
	Fine         decimal.Decimal
	Rate         decimal.Decimal
	MakingCharge decimal.Decimal
	Amount       decimal.Decimal
}

// FineWeight returns round3(weight * touch / 100)
func FineWeight(weight, touch decimal.Decimal) decimal.Decimal {
	return weight.Mul(touch).Div(hundred).Round(finePlaces)
}

// LineAmount returns round2(fine * rate + makingCharge * weight)
func LineAmount(fine, rate, makingCharge, weight decimal.Decimal) decimal.Decimal {
	return fine.Mul(rate).Add(makingCharge.Mul(weight)).Round(amountPlaces)
}

// NewLineItem validates the raw input and derives fine weight and amount.
// When the input also carries Fine or Amount, a difference from the derived
// value larger than tolerance is rejected with AMOUNT_MISMATCH.
func NewLineItem(in LineItemInput, tolerance decimal.Decimal) (LineItem, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if !in.Weight.IsPositive() {
		return LineItem{}, shared.NewDomainError("INVALID_WEIGHT", "Item weight must be greater than zero")
	}
	if in.Touch.IsNegative() || in.Touch.GreaterThan(hundred) {
		return LineItem{}, shared.NewDomainError("INVALID_TOUCH", "Touch must be between 0 and 100")
	}
	if in.Rate.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	if in.MakingCharge.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_MAKING_CHARGE", "Making charge cannot be negative")
	}
	if in.Quantity < 0 {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	fine := FineWeight(in.Weight, in.Touch)
	amount := LineAmount(fine, in.Rate, in.MakingCharge, in.Weight)

	if in.Fine != nil && exceeds(*in.Fine, fine, tolerance) {
		return LineItem{}, shared.NewDomainError("AMOUNT_MISMATCH",
			fmt.Sprintf("Fine weight for %q should be %s, got %s", description, fine.StringFixed(finePlaces), in.Fine.String()))
	}
	if in.Amount != nil && exceeds(*in.Amount, amount, tolerance) {
		return LineItem{}, shared.NewDomainError("AMOUNT_MISMATCH",
			fmt.Sprintf("Amount for %q should be %s, got %s", description, amount.StringFixed(amountPlaces), in.Amount.String()))
	}

	return LineItem{
		Description:  description,
		Quantity:     quantity,
		Weight:       in.Weight,
		Touch:        in.Touch,
		Fine:         fine,
		Rate:         in.Rate,
		MakingCharge: in.MakingCharge,
		Amount:       amount,
	}, nil
}

// MakingTotal returns makingCharge * weight for the line
func (li LineItem) MakingTotal() decimal.Decimal {
	return li.MakingCharge.Mul(li.Weight)
}

func exceeds(claimed, actual, tolerance decimal.Decimal) bool {
	return claimed.Sub(actual).Abs().GreaterThan(tolerance)
}
