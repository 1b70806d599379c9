package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db, DefaultRetryPolicy())
	ctx := context.Background()
	c := seedCustomer(t, db, "Ravi", "", dec("0"))

	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repos uow.Repositories) error {
		locked, err := repos.Customers().FindByIDForUpdate(ctx, c.ID)
		if err != nil {
			return err
		}
		locked.ApplyBalance(dec("999"))
		if err := repos.Customers().SaveWithLock(ctx, locked); err != nil {
			return err
		}
		if _, err := repos.Sequences().Next(ctx, "bill_number"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewGormCustomerRepository(db).FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentBalance.IsZero())
	assert.Equal(t, 1, got.Version)

	next, err := NewGormSequenceRepository(db).Next(ctx, "bill_number")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestGormTransactionScope_Retries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("retries a conflict then succeeds", func(t *testing.T) {
		scope := NewGormTransactionScope(db, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
		calls := 0
		err := scope.Execute(ctx, func(uow.Repositories) error {
			calls++
			if calls == 1 {
				return shared.ErrConcurrencyConflict
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after the budget", func(t *testing.T) {
		scope := NewGormTransactionScope(db, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
		calls := 0
		err := scope.Execute(ctx, func(uow.Repositories) error {
			calls++
			return shared.ErrConcurrencyConflict
		})
		assert.Equal(t, 3, calls)
		assert.True(t, shared.IsConflict(err))
		assert.ErrorIs(t, err, ErrRetriesExhausted)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		scope := NewGormTransactionScope(db, RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond})
		calls := 0
		err := scope.Execute(ctx, func(uow.Repositories) error {
			calls++
			return shared.ErrInvalidInput
		})
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		scope := NewGormTransactionScope(db, RetryPolicy{MaxAttempts: 3, Backoff: time.Hour})
		cctx, cancel := context.WithCancel(ctx)
		err := scope.Execute(cctx, func(uow.Repositories) error {
			cancel()
			return shared.ErrConcurrencyConflict
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
