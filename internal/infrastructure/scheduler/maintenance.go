package scheduler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	customerapp "github.com/silverledger/backend/internal/application/customer"
	reportapp "github.com/silverledger/backend/internal/application/report"
)

const (
	LedgerAuditJobName      = "ledger-audit"
	OutstandingJobName      = "outstanding-snapshot"
	PoolStatsJobName        = "db-pool-stats"
	defaultMaintenanceLimit = 5 * time.Minute
)

// Reconciler compares every cached balance with its ledger
type Reconciler interface {
	ReconcileAll(ctx context.Context, repair bool) (*customerapp.ReconcileSummary, error)
}

// AuditRecorder receives the counts of a reconciliation pass
type AuditRecorder interface {
	RecordLedgerAudit(ctx context.Context, checked, drifted, broken int)
}

// RegisterLedgerAudit schedules a report-only reconciliation of every
// customer. Drifted customers are logged by the reconciler; nothing is
// repaired.
func RegisterLedgerAudit(s *Scheduler, reconciler Reconciler, recorder AuditRecorder, interval time.Duration) error {
	return s.Register(JobConfig{
		Name:     LedgerAuditJobName,
		Interval: interval,
		Timeout:  minDuration(interval, defaultMaintenanceLimit),
	}, func(ctx context.Context) error {
		summary, err := reconciler.ReconcileAll(ctx, false)
		if err != nil {
			return err
		}
		if recorder != nil {
			recorder.RecordLedgerAudit(ctx, summary.Checked, summary.Drifted, summary.Broken)
		}
		return nil
	})
}

// OutstandingReporter lists the customers who owe money
type OutstandingReporter interface {
	Outstanding(ctx context.Context) (*reportapp.OutstandingResponse, error)
}

// OutstandingRecorder receives the outstanding total
type OutstandingRecorder interface {
	RecordOutstanding(ctx context.Context, total decimal.Decimal, customers int)
}

// RegisterOutstandingSnapshot samples the outstanding total into recorder
func RegisterOutstandingSnapshot(s *Scheduler, reporter OutstandingReporter, recorder OutstandingRecorder, interval time.Duration) error {
	return s.Register(JobConfig{
		Name:       OutstandingJobName,
		Interval:   interval,
		RunOnStart: true,
	}, func(ctx context.Context) error {
		resp, err := reporter.Outstanding(ctx)
		if err != nil {
			return err
		}
		recorder.RecordOutstanding(ctx, resp.TotalOutstanding, len(resp.Customers))
		return nil
	})
}

// PoolStatsCollector samples connection pool gauges
type PoolStatsCollector interface {
	CollectPoolStats(ctx context.Context) error
}

// RegisterPoolStats samples the database pool every interval
func RegisterPoolStats(s *Scheduler, collector PoolStatsCollector, interval time.Duration) error {
	return s.Register(JobConfig{
		Name:       PoolStatsJobName,
		Interval:   interval,
		RunOnStart: true,
	}, collector.CollectPoolStats)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
