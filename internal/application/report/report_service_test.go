package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBillRepository is a mock implementation of billing.Repository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillView), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BillView, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.BillView), args.Error(1)
}

func (m *MockBillRepository) TotalsSince(ctx context.Context, since time.Time) (billing.DailyTotals, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(billing.DailyTotals), args.Error(1)
}

// MockCustomerRepository is a mock implementation of customer.Repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindWithPositiveBalance(ctx context.Context) ([]customer.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func owing(t *testing.T, name, balance string) customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, "", "")
	require.NoError(t, err)
	c.CurrentBalance = decimal.RequireFromString(balance)
	return *c
}

func TestService_DailySummary(t *testing.T) {
	bills := new(MockBillRepository)
	customers := new(MockCustomerRepository)
	svc := NewService(bills, customers)
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	bills.On("TotalsSince", ctx, midnight).Return(billing.DailyTotals{
		Count:      3,
		TotalSales: decimal.RequireFromString("4500.50"),
		TotalFine:  decimal.RequireFromString("52.125"),
	}, nil).Once()
	customers.On("CountCreatedSince", ctx, midnight).Return(int64(2), nil).Once()

	resp, err := svc.DailySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, midnight, resp.Date)
	assert.Equal(t, int64(3), resp.BillsCount)
	assert.True(t, resp.TotalSales.Equal(decimal.RequireFromString("4500.5")))
	assert.True(t, resp.TotalSilverWeightSold.Equal(decimal.RequireFromString("52.125")))
	assert.Equal(t, int64(2), resp.NewCustomers)
	bills.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestService_DailySummary_Error(t *testing.T) {
	bills := new(MockBillRepository)
	customers := new(MockCustomerRepository)
	svc := NewService(bills, customers)
	ctx := context.Background()

	bills.On("TotalsSince", ctx, mock.Anything).Return(billing.DailyTotals{}, errors.New("db down")).Once()

	_, err := svc.DailySummary(ctx)
	assert.EqualError(t, err, "db down")
	customers.AssertNotCalled(t, "CountCreatedSince", mock.Anything, mock.Anything)
}

func TestService_Outstanding(t *testing.T) {
	bills := new(MockBillRepository)
	customers := new(MockCustomerRepository)
	svc := NewService(bills, customers)
	ctx := context.Background()

	customers.On("FindWithPositiveBalance", ctx).Return([]customer.Customer{
		owing(t, "Big", "1200"),
		owing(t, "Small", "35.75"),
	}, nil).Once()

	resp, err := svc.Outstanding(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Customers, 2)
	assert.Equal(t, "Big", resp.Customers[0].Name)
	assert.True(t, resp.TotalOutstanding.Equal(decimal.RequireFromString("1235.75")))
}

func TestService_Outstanding_Empty(t *testing.T) {
	bills := new(MockBillRepository)
	customers := new(MockCustomerRepository)
	svc := NewService(bills, customers)

	customers.On("FindWithPositiveBalance", mock.Anything).Return([]customer.Customer{}, nil).Once()

	resp, err := svc.Outstanding(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Customers)
	assert.True(t, resp.TotalOutstanding.IsZero())
}
