package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethod_IsValid(t *testing.T) {
	for _, m := range []Method{MethodCash, MethodUPI, MethodBank, MethodPartial} {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, Method("cash").IsValid())
	assert.False(t, Method("Cheque").IsValid())
	assert.False(t, Method("").IsValid())
}

func TestNewPayment(t *testing.T) {
	customerID := uuid.New()

	t.Run("creates payment", func(t *testing.T) {
		p, err := NewPayment(customerID, decimal.NewFromInt(200), MethodUPI)

		require.NoError(t, err)
		assert.Equal(t, customerID, p.CustomerID)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, "Payment Received - UPI", p.LedgerDescription())
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewPayment(customerID, decimal.Zero, MethodCash)
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewPayment(customerID, decimal.NewFromInt(-5), MethodCash)
		assert.Error(t, err)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := NewPayment(customerID, decimal.NewFromInt(5), Method("Cheque"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Cheque")
	})
}
