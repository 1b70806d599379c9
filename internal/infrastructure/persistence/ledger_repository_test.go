package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendEntry(t *testing.T, repo *GormLedgerRepository, customerID uuid.UUID, debit, credit string) *ledger.Entry {
	t.Helper()
	ctx := context.Background()
	last, err := repo.FindLast(ctx, customerID)
	require.NoError(t, err)

	var seq int64
	prior := dec("0")
	if last != nil {
		seq, prior = last.Sequence, last.Balance
	}
	entry, err := ledger.NewEntry(ledger.Posting{
		CustomerID:  customerID,
		Description: "Adjustment",
		Debit:       dec(debit),
		Credit:      dec(credit),
	}, seq, prior)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, entry))
	return entry
}

func TestGormLedgerRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Ravi", "", dec("0"))

	last, err := repo.FindLast(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, last)

	appendEntry(t, repo, c.ID, "500", "0")
	appendEntry(t, repo, c.ID, "1000", "300")
	appendEntry(t, repo, c.ID, "0", "200")

	entries, err := repo.FindByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
		assert.Equal(t, ledger.ReferenceManual, e.ReferenceType)
	}
	assert.True(t, entries[2].Balance.Equal(dec("1000")))

	balance, breaks := ledger.Replay(entries)
	assert.Empty(t, breaks)
	assert.True(t, balance.Equal(dec("1000")))

	last, err = repo.FindLast(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last.Sequence)

	t.Run("duplicate sequence is a unique violation", func(t *testing.T) {
		dup, err := ledger.NewEntry(ledger.Posting{
			CustomerID:  c.ID,
			Description: "Late writer",
			Debit:       dec("1"),
		}, 2, dec("0"))
		require.NoError(t, err)
		assert.True(t, IsUniqueViolation(repo.Append(ctx, dup)))
	})

	t.Run("delete removes every entry", func(t *testing.T) {
		n, err := repo.DeleteByCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		entries, err := repo.FindByCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
