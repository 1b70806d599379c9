package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "mobile", "current_balance", "version"}).
			AddRow(id.String(), "Ravi", "9876543210", "150.5", 3)
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 LIMIT .* FOR UPDATE`).
			WillReturnRows(rows)

		c, err := NewGormCustomerRepository(db).FindByIDForUpdate(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, 3, c.Version)
		assert.True(t, c.CurrentBalance.Equal(dec("150.5")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("works on sqlite without row locks", func(t *testing.T) {
		db := newTestDB(t)
		c := seedCustomer(t, db, "Ravi", "", decimal.Zero)

		got, err := NewGormCustomerRepository(db).FindByIDForUpdate(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ravi", got.Name)
	})
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db)
	c := seedCustomer(t, db, "Meena", "98450", dec("12.34"))

	got, err := repo.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meena", got.Name)
	assert.Equal(t, "98450", got.Mobile)
	assert.True(t, got.CurrentBalance.Equal(dec("12.34")))
	assert.Equal(t, 1, got.Version)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestGormCustomerRepository_SaveWithLock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Arun", "", decimal.Zero)

	t.Run("writes when the version matches", func(t *testing.T) {
		c.ApplyBalance(dec("500"))
		require.NoError(t, repo.SaveWithLock(ctx, c))

		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
		assert.True(t, got.CurrentBalance.Equal(dec("500")))
	})

	t.Run("writes a zero balance", func(t *testing.T) {
		c.ApplyBalance(decimal.Zero)
		require.NoError(t, repo.SaveWithLock(ctx, c))

		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, got.CurrentBalance.IsZero())
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)

		c.ApplyBalance(dec("10"))
		require.NoError(t, repo.SaveWithLock(ctx, c))

		stale.ApplyBalance(dec("20"))
		err = repo.SaveWithLock(ctx, stale)
		assert.True(t, shared.IsConflict(err))
	})
}

func TestGormCustomerRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	seedCustomer(t, db, "Lakshmi Jewellers", "9000011111", decimal.Zero)
	seedCustomer(t, db, "Suresh", "9000022222", decimal.Zero)
	seedCustomer(t, db, "Kiran", "8000033333", decimal.Zero)

	t.Run("matches name case-insensitively", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "lakshmi"
		got, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Lakshmi Jewellers", got[0].Name)
	})

	t.Run("matches mobile", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "90000"
		got, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("pages results", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.Page = 2
		got, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestGormCustomerRepository_Balances(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	seedCustomer(t, db, "Small", "", dec("100"))
	seedCustomer(t, db, "Large", "", dec("2500.75"))
	seedCustomer(t, db, "Settled", "", decimal.Zero)
	seedCustomer(t, db, "Advance", "", dec("-40"))

	got, err := repo.FindWithPositiveBalance(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Large", got[0].Name)
	assert.Equal(t, "Small", got[1].Name)

	count, err := repo.CountCreatedSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 4)
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Gone", "", decimal.Zero)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err := repo.FindByID(ctx, c.ID)
	assert.True(t, shared.IsNotFound(err))

	assert.True(t, shared.IsNotFound(repo.Delete(ctx, c.ID)))
}
