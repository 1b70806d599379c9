package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service reads ledgers and records manual adjustments
type Service struct {
	scope     uow.TransactionScope
	locker    uow.KeyedLocker
	customers customer.Repository
	entries   ledger.Repository
	logger    *zap.Logger
}

// NewService creates a new ledger Service
func NewService(
	scope uow.TransactionScope,
	locker uow.KeyedLocker,
	customers customer.Repository,
	entries ledger.Repository,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		scope:     scope,
		locker:    locker,
		customers: customers,
		entries:   entries,
		logger:    log,
	}
}

// GetLedger returns the customer summary and every entry by sequence
func (s *Service) GetLedger(ctx context.Context, customerID uuid.UUID) (*LedgerResponse, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	resp := &LedgerResponse{
		Customer: c.Summarize(),
		Entries:  make([]EntryResponse, len(entries)),
	}
	for i := range entries {
		resp.Entries[i] = ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// AddManualEntry posts a staff adjustment
func (s *Service) AddManualEntry(ctx context.Context, customerID uuid.UUID, req ManualEntryRequest) (*EntryResponse, error) {
	posting := ledger.Posting{
		CustomerID:    customerID,
		Description:   req.Description,
		Debit:         valueOrZero(req.Debit),
		Credit:        valueOrZero(req.Credit),
		ReferenceType: ledger.ReferenceManual,
	}
	if err := ledger.ValidateManual(posting); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, uow.CustomerKey(customerID.String()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var entry *ledger.Entry
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		entry, err = Post(ctx, repos, posting)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("manual ledger entry posted",
		zap.String("customer_id", customerID.String()),
		zap.Int64("sequence", entry.Sequence),
		zap.String("balance", entry.Balance.String()),
	)
	resp := ToEntryResponse(entry)
	return &resp, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
