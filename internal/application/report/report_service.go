package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/customer"
)

// Service builds read-only business reports
type Service struct {
	bills     billing.Repository
	customers customer.Repository
	now       func() time.Time
}

// NewService creates a new report Service
func NewService(bills billing.Repository, customers customer.Repository) *Service {
	return &Service{bills: bills, customers: customers, now: time.Now}
}

// DailySummary aggregates today's bills and new customers
func (s *Service) DailySummary(ctx context.Context) (*DailySummaryResponse, error) {
	since := customer.StartOfDay(s.now())

	totals, err := s.bills.TotalsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	newCustomers, err := s.customers.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &DailySummaryResponse{
		Date:                  since,
		BillsCount:            totals.Count,
		TotalSales:            totals.TotalSales,
		TotalSilverWeightSold: totals.TotalFine,
		NewCustomers:          newCustomers,
	}, nil
}

// Outstanding lists customers with a positive balance and their total
func (s *Service) Outstanding(ctx context.Context) (*OutstandingResponse, error) {
	owing, err := s.customers.FindWithPositiveBalance(ctx)
	if err != nil {
		return nil, err
	}
	resp := &OutstandingResponse{
		Customers:        make([]customer.Summary, len(owing)),
		TotalOutstanding: decimal.Zero,
	}
	for i := range owing {
		resp.Customers[i] = owing[i].Summarize()
		resp.TotalOutstanding = resp.TotalOutstanding.Add(owing[i].CurrentBalance)
	}
	return resp, nil
}
