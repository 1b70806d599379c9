package persistence

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// decimalScan reads aggregate results. Drivers return SUM as numeric text,
// float or integer depending on the database; decimal.Decimal handles the
// first two and this wrapper normalizes the rest.
type decimalScan struct {
	decimal.Decimal
}

// Scan implements sql.Scanner
func (d *decimalScan) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Decimal = decimal.Zero
		return nil
	case int64:
		d.Decimal = decimal.NewFromInt(v)
		return nil
	case float64:
		d.Decimal = decimal.NewFromFloat(v).Round(4)
		return nil
	default:
		if err := d.Decimal.Scan(v); err != nil {
			return fmt.Errorf("scan aggregate decimal: %w", err)
		}
		return nil
	}
}
