package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewEntry(t *testing.T) {
	customerID := uuid.New()

	t.Run("first entry starts from zero", func(t *testing.T) {
		e, err := NewEntry(Posting{
			CustomerID:    customerID,
			Description:   OpeningBalanceDescription,
			Debit:         dec("500"),
			ReferenceType: ReferenceOpening,
		}, 0, decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, int64(1), e.Sequence)
		assert.True(t, e.Balance.Equal(dec("500")))
		assert.True(t, e.Credit.IsZero())
		assert.Equal(t, ReferenceOpening, e.ReferenceType)
		assert.Equal(t, e.CreatedAt, e.Date)
	})

	t.Run("bill entry on existing balance", func(t *testing.T) {
		billID := uuid.New()
		e, err := NewEntry(Posting{
			CustomerID:    customerID,
			Description:   "Bill #1",
			Debit:         dec("1000"),
			Credit:        dec("300"),
			ReferenceType: ReferenceBill,
			ReferenceID:   &billID,
		}, 1, dec("500"))

		require.NoError(t, err)
		assert.Equal(t, int64(2), e.Sequence)
		assert.True(t, e.Balance.Equal(dec("1200")))
		assert.Equal(t, &billID, e.ReferenceID)
	})

	t.Run("defaults reference type to manual", func(t *testing.T) {
		e, err := NewEntry(Posting{CustomerID: customerID, Description: "adj", Credit: dec("5")}, 3, dec("5"))

		require.NoError(t, err)
		assert.Equal(t, ReferenceManual, e.ReferenceType)
		assert.True(t, e.Balance.IsZero())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewEntry(Posting{CustomerID: customerID, Description: "x", Debit: dec("-1")}, 0, decimal.Zero)
		assert.Error(t, err)

		_, err = NewEntry(Posting{CustomerID: customerID, Description: "x", Credit: dec("-1")}, 0, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewEntry(Posting{CustomerID: customerID, Description: "  "}, 0, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects missing customer", func(t *testing.T) {
		_, err := NewEntry(Posting{Description: "x"}, 0, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestValidateManual(t *testing.T) {
	assert.NoError(t, ValidateManual(Posting{Description: "Old dues", Debit: dec("10")}))
	assert.NoError(t, ValidateManual(Posting{Description: "Discount", Credit: dec("10")}))
	assert.Error(t, ValidateManual(Posting{Description: "Nothing"}))
	assert.Error(t, ValidateManual(Posting{Debit: dec("10")}))
	assert.Error(t, ValidateManual(Posting{Description: "neg", Debit: dec("-10"), Credit: dec("20")}))
}

func TestReplay(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		last, breaks := Replay(nil)
		assert.True(t, last.IsZero())
		assert.Empty(t, breaks)
	})

	t.Run("consistent chain", func(t *testing.T) {
		entries := []Entry{
			{Sequence: 1, Debit: dec("500"), Balance: dec("500")},
			{Sequence: 2, Debit: dec("1000"), Credit: dec("300"), Balance: dec("1200")},
			{Sequence: 3, Credit: dec("200"), Balance: dec("1000")},
		}

		last, breaks := Replay(entries)

		assert.True(t, last.Equal(dec("1000")))
		assert.Empty(t, breaks)
	})

	t.Run("reports a single broken link", func(t *testing.T) {
		entries := []Entry{
			{Sequence: 1, Debit: dec("500"), Balance: dec("500")},
			{Sequence: 2, Debit: dec("100"), Balance: dec("650")},
			{Sequence: 3, Credit: dec("50"), Balance: dec("600")},
		}

		last, breaks := Replay(entries)

		assert.True(t, last.Equal(dec("600")))
		require.Len(t, breaks, 1)
		assert.Equal(t, int64(2), breaks[0].Sequence)
		assert.True(t, breaks[0].Expected.Equal(dec("600")))
		assert.True(t, breaks[0].Actual.Equal(dec("650")))
	})
}
