// Package testutil provides common test utilities for the silver ledger
// backend: a migrated in-memory database with every repository wired to a
// real transaction scope, sqlmock handles, and helpers for polling and
// deterministic ids.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/silverledger/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Env is a migrated SQLite database with the repositories, a retrying
// transaction scope and an in-process key locker
type Env struct {
	DB        *gorm.DB
	Scope     *persistence.GormTransactionScope
	Locker    *uow.MemoryLocker
	Customers *persistence.GormCustomerRepository
	Ledger    *persistence.GormLedgerRepository
	Bills     *persistence.GormBillRepository
	Payments  *persistence.GormPaymentRepository
	Stock     *persistence.GormStockRepository
	Rates     *persistence.GormRateRepository
	Users     *persistence.GormUserRepository
}

// NewEnv creates an Env backed by a private in-memory database
func NewEnv(t *testing.T) *Env {
	t.Helper()

	d, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = d.Close() })

	return &Env{
		DB:        d.DB,
		Scope:     persistence.NewGormTransactionScope(d.DB, persistence.RetryPolicy{MaxAttempts: 5, Backoff: time.Millisecond}),
		Locker:    uow.NewMemoryLocker(),
		Customers: persistence.NewGormCustomerRepository(d.DB),
		Ledger:    persistence.NewGormLedgerRepository(d.DB),
		Bills:     persistence.NewGormBillRepository(d.DB),
		Payments:  persistence.NewGormPaymentRepository(d.DB),
		Stock:     persistence.NewGormStockRepository(d.DB),
		Rates:     persistence.NewGormRateRepository(d.DB),
		Users:     persistence.NewGormUserRepository(d.DB),
	}
}

// SeedCustomer stores a customer whose cached balance is set directly,
// without a ledger entry
func (e *Env) SeedCustomer(t *testing.T, name string, balance decimal.Decimal) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, "", "")
	require.NoError(t, err)
	c.CurrentBalance = balance
	require.NoError(t, e.Customers.Save(context.Background(), c))
	return c
}

// Balance reads the stored balance of a customer
func (e *Env) Balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	c, err := e.Customers.FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.CurrentBalance
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres-dialect mock database that is closed with the test
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// Dec parses a decimal literal
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr parses a decimal literal and returns its address
func DecPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// AssertDecimal compares decimals by value, so 1200 equals 1200.00
func AssertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.True(t, Dec(expected).Equal(actual),
		append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

// NewTestUUID generates a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually retries condition until it holds or timeout passes.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
