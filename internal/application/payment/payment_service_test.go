package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/payment"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu       sync.Mutex
	payments []*payment.Payment
}

func (o *recordingObserver) PaymentRecorded(_ context.Context, p *payment.Payment) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payments = append(o.payments, p)
}

func TestService_RecordPayment_CreditsLedger(t *testing.T) {
	env := testutil.NewEnv(t)
	observer := &recordingObserver{}
	svc := NewService(env.Scope, env.Locker, env.Payments, observer, nil)
	ctx := context.Background()
	c := env.SeedCustomer(t, "Ramesh", testutil.Dec("1200"))

	resp, err := svc.RecordPayment(ctx, RecordPaymentRequest{
		CustomerID: c.ID.String(),
		Amount:     testutil.Dec("200"),
		Method:     "UPI",
	})
	require.NoError(t, err)
	assert.Equal(t, "UPI", resp.Method)
	testutil.AssertDecimal(t, "200", resp.Amount)
	testutil.AssertDecimal(t, "1000", env.Balance(t, c.ID))

	entries, err := env.Ledger.FindByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "Payment Received - UPI", e.Description)
	assert.Equal(t, ledger.ReferencePayment, e.ReferenceType)
	require.NotNil(t, e.ReferenceID)
	assert.Equal(t, resp.ID, e.ReferenceID.String())
	testutil.AssertDecimal(t, "0", e.Debit)
	testutil.AssertDecimal(t, "200", e.Credit)
	testutil.AssertDecimal(t, "1000", e.Balance)

	require.Len(t, observer.payments, 1)
	assert.Equal(t, resp.ID, observer.payments[0].ID.String())
}

func TestService_RecordPayment_Overpayment(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Scope, env.Locker, env.Payments, nil, nil)
	c := env.SeedCustomer(t, "Sita", testutil.Dec("100"))

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		CustomerID: c.ID.String(),
		Amount:     testutil.Dec("150"),
		Method:     "Cash",
	})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "-50", env.Balance(t, c.ID))
}

func TestService_RecordPayment_Validation(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Scope, env.Locker, env.Payments, nil, nil)
	c := env.SeedCustomer(t, "Gopal", testutil.Dec("100"))

	tests := []struct {
		name string
		req  RecordPaymentRequest
		code string
	}{
		{"zero amount", RecordPaymentRequest{CustomerID: c.ID.String(), Amount: testutil.Dec("0"), Method: "Cash"}, "INVALID_AMOUNT"},
		{"bad method", RecordPaymentRequest{CustomerID: c.ID.String(), Amount: testutil.Dec("5"), Method: "Cheque"}, "INVALID_METHOD"},
		{"bad id", RecordPaymentRequest{CustomerID: "x", Amount: testutil.Dec("5"), Method: "Cash"}, "INVALID_CUSTOMER"},
		{"unknown customer", RecordPaymentRequest{CustomerID: uuid.NewString(), Amount: testutil.Dec("5"), Method: "Cash"}, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(context.Background(), tt.req)
			var de *shared.DomainError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	testutil.AssertDecimal(t, "100", env.Balance(t, c.ID))
	list, err := svc.ListPayments(context.Background(), nil, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_RecordPayment_ConcurrentSameCustomer(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Scope, env.Locker, env.Payments, nil, nil)
	ctx := context.Background()
	c := env.SeedCustomer(t, "Kiran", testutil.Dec("1000"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordPayment(ctx, RecordPaymentRequest{
				CustomerID: c.ID.String(),
				Amount:     testutil.Dec("25"),
				Method:     "Cash",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	testutil.AssertDecimal(t, "750", env.Balance(t, c.ID))
	entries, err := env.Ledger.FindByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 10)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
	}
	testutil.AssertDecimal(t, "750", entries[9].Balance)
}

func TestService_ListPayments_ByCustomer(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Scope, env.Locker, env.Payments, nil, nil)
	ctx := context.Background()
	a := env.SeedCustomer(t, "A", testutil.Dec("100"))
	b := env.SeedCustomer(t, "B", testutil.Dec("100"))

	for _, id := range []uuid.UUID{a.ID, a.ID, b.ID} {
		_, err := svc.RecordPayment(ctx, RecordPaymentRequest{CustomerID: id.String(), Amount: testutil.Dec("10"), Method: "Bank"})
		require.NoError(t, err)
	}

	forA, err := svc.ListPayments(ctx, &a.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, forA, 2)

	all, err := svc.ListPayments(ctx, nil, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
