package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens a migrated in-memory SQLite database
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d.DB
}

// newMockDB opens a postgres-dialect GORM handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func seedCustomer(t *testing.T, db *gorm.DB, name, mobile string, balance decimal.Decimal) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, mobile, "")
	require.NoError(t, err)
	c.CurrentBalance = balance
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), c))
	return c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func midnight() time.Time {
	return customer.StartOfDay(time.Now())
}
