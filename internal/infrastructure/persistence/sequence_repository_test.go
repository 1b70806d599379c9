package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSequenceRepository_Next(t *testing.T) {
	t.Run("increments from the seeded counter", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormSequenceRepository(db)

		for want := int64(1); want <= 3; want++ {
			got, err := repo.Next(context.Background(), billing.SequenceName)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("creates a missing counter", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormSequenceRepository(db)

		got, err := repo.Next(context.Background(), "receipt_number")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("issues an in-place increment", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "sequences" SET "value"=value \+ \$1 WHERE name = \$2`).
			WithArgs(1, billing.SequenceName).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "sequences" WHERE name = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).AddRow(billing.SequenceName, 42))

		got, err := NewGormSequenceRepository(db).Next(context.Background(), billing.SequenceName)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSequences_StartsAtHighestBillNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := seedCustomer(t, db, "Ravi", "", dec("0"))

	bills := NewGormBillRepository(db)
	draft, err := billing.NewDraft(c.ID, []billing.LineItemInput{
		{Description: "Chain", Weight: dec("10"), Touch: dec("92.5"), Rate: dec("80")},
	}, dec("0"), billing.DefaultTolerance)
	require.NoError(t, err)
	require.NoError(t, bills.Save(ctx, draft.Finalize(17, dec("0"))))

	require.NoError(t, db.Exec("DELETE FROM sequences").Error)
	require.NoError(t, EnsureSequences(ctx, db))

	next, err := NewGormSequenceRepository(db).Next(ctx, billing.SequenceName)
	require.NoError(t, err)
	assert.Equal(t, int64(18), next)
}
