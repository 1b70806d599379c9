package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	ledgerapp "github.com/silverledger/backend/internal/application/ledger"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Service manages the customer directory
type Service struct {
	scope     uow.TransactionScope
	locker    uow.KeyedLocker
	customers customer.Repository
	logger    *zap.Logger
}

// NewService creates a new customer Service
func NewService(scope uow.TransactionScope, locker uow.KeyedLocker, customers customer.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		scope:     scope,
		locker:    locker,
		customers: customers,
		logger:    log,
	}
}

// Create stores a new customer. A positive opening balance is posted as the
// customer's first ledger entry in the same transaction.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	c, err := customer.NewCustomer(req.Name, req.Mobile, req.Address)
	if err != nil {
		return nil, err
	}
	if req.OpeningBalance != nil && req.OpeningBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPENING_BALANCE", "Opening balance cannot be negative")
	}

	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		// a retried attempt starts again from the unsaved customer
		fresh := *c
		if err := repos.Customers().Save(ctx, &fresh); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}
		if req.OpeningBalance != nil && req.OpeningBalance.IsPositive() {
			if _, err := ledgerapp.PostLocked(ctx, repos, &fresh, ledger.Posting{
				Description:   ledger.OpeningBalanceDescription,
				Debit:         *req.OpeningBalance,
				ReferenceType: ledger.ReferenceOpening,
			}); err != nil {
				return err
			}
		}
		*c = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("customer created",
		zap.String("customer_id", c.ID.String()),
		zap.String("opening_balance", c.CurrentBalance.String()),
	)
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID returns one customer
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List returns customers newest first, filtered by a name or mobile keyword
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]CustomerResponse, error) {
	customers, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, nil
}

// Update changes name, mobile and address. The balance is left alone.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	unlock, err := s.locker.Lock(ctx, uow.CustomerKey(id.String()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated *customer.Customer
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		c, err := repos.Customers().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := c.UpdateDetails(req.Name, req.Mobile, req.Address); err != nil {
			return err
		}
		if err := repos.Customers().SaveWithLock(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(updated)
	return &resp, nil
}

// Delete removes the customer and its whole ledger in one transaction.
// Bills and payments are kept as sales history.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, uow.CustomerKey(id.String()))
	if err != nil {
		return err
	}
	defer unlock()

	var removed int64
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if _, err := repos.Customers().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		n, err := repos.Ledger().DeleteByCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("delete ledger entries: %w", err)
		}
		removed = n
		return repos.Customers().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.For(ctx, s.logger).Info("customer deleted",
		zap.String("customer_id", id.String()),
		zap.Int64("ledger_entries", removed),
	)
	return nil
}
