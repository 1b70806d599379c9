package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	invapp "github.com/silverledger/backend/internal/application/inventory"
	ledgerapp "github.com/silverledger/backend/internal/application/ledger"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/inventory"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Observer is told about every committed bill
type Observer interface {
	BillCreated(ctx context.Context, bill *billing.Bill)
}

// Service creates and reads bills
type Service struct {
	scope     uow.TransactionScope
	locker    uow.KeyedLocker
	bills     billing.Repository
	tolerance decimal.Decimal
	observer  Observer
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithTolerance sets the accepted difference between client and server figures
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(s *Service) { s.tolerance = tolerance }
}

// WithObserver registers an observer of committed bills
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a new billing Service
func NewService(scope uow.TransactionScope, locker uow.KeyedLocker, bills billing.Repository, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		scope:     scope,
		locker:    locker,
		bills:     bills,
		tolerance: billing.DefaultTolerance,
		logger:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBill prices the items, numbers the bill and, in one transaction,
// stores it, moves the customer's balance, appends the ledger entry and
// deducts each line's fine weight from stock.
func (s *Service) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bill", "create",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID),
		telemetry.WithAttribute(telemetry.SpanAttrItemsCount, len(req.Items)),
	)
	defer span.End()

	resp, err := s.createBill(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillID, resp.ID,
		telemetry.SpanAttrBillNumber, resp.BillNumber,
	)
	return resp, nil
}

func (s *Service) createBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer id is not a valid UUID")
	}
	paid := decimal.Zero
	if req.PaidAmount != nil {
		paid = *req.PaidAmount
	}

	draft, err := billing.NewDraft(customerID, toLineItemInputs(req.Items), paid, s.tolerance)
	if err != nil {
		return nil, err
	}

	keys := []string{uow.CustomerKey(customerID.String())}
	for _, item := range draft.Items {
		keys = append(keys, uow.StockKey(inventory.NormalizeItemName(item.Description)))
	}
	unlock, err := uow.LockAll(ctx, s.locker, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		bill *billing.Bill
		name string
		mob  string
	)
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		c, err := repos.Customers().FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		number, err := repos.Sequences().Next(ctx, billing.SequenceName)
		if err != nil {
			return err
		}
		bill = draft.Finalize(number, c.CurrentBalance)
		if err := repos.Bills().Save(ctx, bill); err != nil {
			return fmt.Errorf("save bill: %w", err)
		}

		entry, err := ledgerapp.PostLocked(ctx, repos, c, ledger.Posting{
			Description:   bill.Description(),
			Debit:         bill.Charge(),
			Credit:        bill.PaidAmount,
			ReferenceType: ledger.ReferenceBill,
			ReferenceID:   &bill.ID,
		})
		if err != nil {
			return err
		}
		if !entry.Balance.Equal(bill.RemainingBalance) {
			return fmt.Errorf("bill %d: ledger balance %s differs from remaining balance %s",
				bill.BillNumber, entry.Balance, bill.RemainingBalance)
		}

		for _, item := range bill.Items {
			if _, err := invapp.Deduct(ctx, repos, item.Description, item.Fine, &bill.ID); err != nil {
				return err
			}
		}
		name, mob = c.Name, c.Mobile
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("bill created",
		zap.Int64("bill_number", bill.BillNumber),
		zap.String("customer_id", customerID.String()),
		zap.String("total_payable", bill.TotalPayable.String()),
		zap.String("remaining_balance", bill.RemainingBalance.String()),
	)
	if s.observer != nil {
		s.observer.BillCreated(ctx, bill)
	}

	resp := ToBillResponse(bill, name, mob)
	return &resp, nil
}

// GetBill returns one bill with its customer summary
func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	view, err := s.bills.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBillResponse(&view.Bill, view.CustomerName, view.CustomerMobile)
	return &resp, nil
}

// ListBills lists bills newest first
func (s *Service) ListBills(ctx context.Context, filter shared.Filter) ([]BillResponse, error) {
	views, err := s.bills.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]BillResponse, len(views))
	for i := range views {
		out[i] = ToBillResponse(&views[i].Bill, views[i].CustomerName, views[i].CustomerMobile)
	}
	return out, nil
}
