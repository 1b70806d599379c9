package persistence

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/inventory"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/payment"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetryPolicy bounds how often a unit of work that lost a concurrency race
// is run again
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy returns five attempts with a 20ms base backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Backoff: 20 * time.Millisecond}
}

// ErrRetriesExhausted is returned when every attempt hit a retryable error
var ErrRetriesExhausted = shared.NewDomainError("CONCURRENCY_CONFLICT", "The operation conflicted with concurrent changes, please retry")

// GormTransactionScope implements uow.TransactionScope using GORM
// transactions. A run that fails with a version conflict, a unique violation
// or a deadlock is rolled back and started again from scratch.
type GormTransactionScope struct {
	db     *gorm.DB
	policy RetryPolicy
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, policy RetryPolicy) *GormTransactionScope {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &GormTransactionScope{db: db, policy: policy}
}

// Execute runs fn within a database transaction, committing when fn returns nil
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos uow.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormRepositories{tx: tx})
		})
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == s.policy.MaxAttempts {
			break
		}

		logger.L(ctx).Debug("retrying transaction",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if werr := s.wait(ctx, attempt); werr != nil {
			return werr
		}
	}

	logger.L(ctx).Warn("transaction retries exhausted",
		zap.Int("attempts", s.policy.MaxAttempts),
		zap.Error(err),
	)
	return ErrRetriesExhausted
}

// wait sleeps for a linearly growing, jittered backoff
func (s *GormTransactionScope) wait(ctx context.Context, attempt int) error {
	if s.policy.Backoff <= 0 {
		return ctx.Err()
	}
	base := s.policy.Backoff * time.Duration(attempt)
	delay := base/2 + rand.N(base)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// gormRepositories binds every repository to one transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Customers() customer.Repository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormRepositories) Ledger() ledger.Repository {
	return NewGormLedgerRepository(r.tx)
}

func (r *gormRepositories) Bills() billing.Repository {
	return NewGormBillRepository(r.tx)
}

func (r *gormRepositories) Sequences() billing.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

func (r *gormRepositories) Payments() payment.Repository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormRepositories) Stock() inventory.Repository {
	return NewGormStockRepository(r.tx)
}

var (
	_ uow.TransactionScope = (*GormTransactionScope)(nil)
	_ uow.Repositories     = (*gormRepositories)(nil)
)
