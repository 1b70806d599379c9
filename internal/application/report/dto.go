package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/customer"
)

// DailySummaryResponse covers everything since local midnight
type DailySummaryResponse struct {
	Date                  time.Time       `json:"date"`
	BillsCount            int64           `json:"billsCount"`
	TotalSales            decimal.Decimal `json:"totalSales"`
	TotalSilverWeightSold decimal.Decimal `json:"totalSilverWeightSold"`
	NewCustomers          int64           `json:"newCustomers"`
}

// OutstandingResponse lists customers who owe money, largest first
type OutstandingResponse struct {
	Customers        []customer.Summary `json:"customers"`
	TotalOutstanding decimal.Decimal    `json:"totalOutstanding"`
}
