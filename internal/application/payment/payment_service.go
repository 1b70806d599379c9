package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	ledgerapp "github.com/silverledger/backend/internal/application/ledger"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/payment"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Observer is told about every committed payment
type Observer interface {
	PaymentRecorded(ctx context.Context, p *payment.Payment)
}

// Service records customer payments
type Service struct {
	scope    uow.TransactionScope
	locker   uow.KeyedLocker
	payments payment.Repository
	observer Observer
	logger   *zap.Logger
}

// NewService creates a new payment Service. observer may be nil.
func NewService(scope uow.TransactionScope, locker uow.KeyedLocker, payments payment.Repository, observer Observer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		scope:    scope,
		locker:   locker,
		payments: payments,
		observer: observer,
		logger:   log,
	}
}

// RecordPayment stores the payment and credits the customer's ledger in
// one transaction
func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID),
		telemetry.WithAttribute(telemetry.SpanAttrMethod, req.Method),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount.String()),
	)
	defer span.End()

	resp, err := s.recordPayment(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrPaymentID, resp.ID)
	return resp, nil
}

func (s *Service) recordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer id is not a valid UUID")
	}
	p, err := payment.NewPayment(customerID, req.Amount, payment.Method(req.Method))
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, uow.CustomerKey(customerID.String()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var entry *ledger.Entry
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		c, err := repos.Customers().FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, p); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}
		entry, err = ledgerapp.PostLocked(ctx, repos, c, ledger.Posting{
			Description:   p.LedgerDescription(),
			Credit:        p.Amount,
			ReferenceType: ledger.ReferencePayment,
			ReferenceID:   &p.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("payment recorded",
		zap.String("customer_id", customerID.String()),
		zap.String("amount", p.Amount.String()),
		zap.String("method", string(p.Method)),
		zap.String("balance", entry.Balance.String()),
	)
	if s.observer != nil {
		s.observer.PaymentRecorded(ctx, p)
	}

	resp := ToPaymentResponse(p)
	return &resp, nil
}

// ListPayments lists payments newest first, optionally for one customer
func (s *Service) ListPayments(ctx context.Context, customerID *uuid.UUID, filter shared.Filter) ([]PaymentResponse, error) {
	payments, err := s.payments.FindAll(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, nil
}
