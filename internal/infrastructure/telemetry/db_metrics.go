package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics holds the database metric instruments.
type DBMetrics struct {
	poolConnections    *Gauge
	poolConnectionsMax *Gauge
	queryTotal         *Counter
	queryDuration      *Histogram
	slowQueryTotal     *Counter

	slowQueryThresh time.Duration
	sqlDB           *sql.DB
	logger          *zap.Logger
}

// NewDBMetrics creates the instruments on meter.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowQueryThresh time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowQueryThresh <= 0 {
		slowQueryThresh = 200 * time.Millisecond
	}

	m := &DBMetrics{slowQueryThresh: slowQueryThresh, sqlDB: sqlDB, logger: logger}
	var err error
	if m.poolConnections, err = NewGauge(meter, "db_pool_connections", "Number of connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolConnectionsMax, err = NewGauge(meter, "db_pool_connections_max", "Maximum number of connections in the pool", "{connection}"); err != nil {
		return nil, err
	}
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Total number of database queries by operation type", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Total number of slow database queries", "{query}"); err != nil {
		return nil, err
	}
	return m, nil
}

// CollectPoolStats records the connection pool state. It runs as a
// scheduler job.
func (m *DBMetrics) CollectPoolStats(ctx context.Context) error {
	if m.sqlDB == nil {
		return nil
	}
	stats := m.sqlDB.Stats()
	m.poolConnectionsMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.poolConnections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConnections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConnections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
	return nil
}

// RecordQuery records one finished query.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "OTHER"
	}
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation))

	if duration > m.slowQueryThresh {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Register installs query metric callbacks on db.
func (m *DBMetrics) Register(db *gorm.DB) error {
	return registerAround(db, "db_metrics", markQueryStart(metricsStartTimeKey), m.afterQuery)
}

func (m *DBMetrics) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	var duration time.Duration
	if start, ok := ctx.Value(metricsStartTimeKey).(time.Time); ok {
		duration = time.Since(start)
	}
	m.RecordQuery(ctx, detectOperationType(db.Statement.SQL.String()), db.Statement.Table, duration)
}

// detectOperationType reads the SQL verb
func detectOperationType(query string) string {
	query = strings.TrimSpace(strings.ToUpper(query))
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(query, verb) {
			return verb
		}
	}
	return "OTHER"
}
