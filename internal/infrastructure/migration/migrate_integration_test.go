//go:build integration

package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func TestMigrator_UpDownVersion(t *testing.T) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("silver_migrate"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	path, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	m, err := New(db, path, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	st, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), st.Version)

	require.NoError(t, m.Up())
	require.NoError(t, m.Up())
	st, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), st.Version)
	assert.False(t, st.Dirty)

	var seq int64
	require.NoError(t, db.QueryRow("SELECT value FROM sequences WHERE name = 'bill_number'").Scan(&seq))
	assert.Equal(t, int64(0), seq)

	require.NoError(t, m.Down())
	st, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), st.Version)
}
