package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	customerapp "github.com/silverledger/backend/internal/application/customer"
	reportapp "github.com/silverledger/backend/internal/application/report"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	repairs []bool
	mu      sync.Mutex
	err     error
}

func (r *stubReconciler) ReconcileAll(_ context.Context, repair bool) (*customerapp.ReconcileSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repairs = append(r.repairs, repair)
	if r.err != nil {
		return nil, r.err
	}
	return &customerapp.ReconcileSummary{Checked: 4, Drifted: 1, Broken: 2}, nil
}

func (r *stubReconciler) calls() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.repairs...)
}

type recorder struct {
	mu          sync.Mutex
	audits      [][3]int
	outstanding []string
	owing       []int
}

func (r *recorder) RecordLedgerAudit(_ context.Context, checked, drifted, broken int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, [3]int{checked, drifted, broken})
}

func (r *recorder) RecordOutstanding(_ context.Context, total decimal.Decimal, customers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outstanding = append(r.outstanding, total.String())
	r.owing = append(r.owing, customers)
}

func (r *recorder) auditCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.audits)
}

func (r *recorder) outstandingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outstanding)
}

type stubReporter struct{}

func (stubReporter) Outstanding(context.Context) (*reportapp.OutstandingResponse, error) {
	return &reportapp.OutstandingResponse{
		Customers:        []customer.Summary{{Name: "Ramesh"}, {Name: "Suresh"}},
		TotalOutstanding: decimal.RequireFromString("1500.5"),
	}, nil
}

type countingCollector struct{ n int32 }

func (c *countingCollector) CollectPoolStats(context.Context) error {
	atomic.AddInt32(&c.n, 1)
	return nil
}

func TestRegisterLedgerAudit_ReportsWithoutRepair(t *testing.T) {
	s := NewScheduler(nil)
	reconciler := &stubReconciler{}
	rec := &recorder{}
	require.NoError(t, RegisterLedgerAudit(s, reconciler, rec, 10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return rec.auditCount() >= 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	for _, repair := range reconciler.calls() {
		assert.False(t, repair)
	}
	rec.mu.Lock()
	assert.Equal(t, [3]int{4, 1, 2}, rec.audits[0])
	rec.mu.Unlock()
}

func TestRegisterLedgerAudit_FailureIsRecordedOnJob(t *testing.T) {
	s := NewScheduler(nil)
	reconciler := &stubReconciler{err: errors.New("database is locked")}
	rec := &recorder{}
	require.NoError(t, RegisterLedgerAudit(s, reconciler, rec, 10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool {
		state, err := s.State(LedgerAuditJobName)
		return err == nil && state.Status == JobStatusFailed
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	state, err := s.State(LedgerAuditJobName)
	require.NoError(t, err)
	assert.Equal(t, "database is locked", state.Error)
	assert.Zero(t, rec.auditCount())
}

func TestRegisterOutstandingSnapshot(t *testing.T) {
	s := NewScheduler(nil)
	rec := &recorder{}
	require.NoError(t, RegisterOutstandingSnapshot(s, stubReporter{}, rec, time.Hour))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return rec.outstandingCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "1500.5", rec.outstanding[0])
	assert.Equal(t, 2, rec.owing[0])
}

func TestRegisterPoolStats(t *testing.T) {
	s := NewScheduler(nil)
	collector := &countingCollector{}
	require.NoError(t, RegisterPoolStats(s, collector, 10*time.Millisecond))
	assert.ErrorIs(t, RegisterPoolStats(s, collector, time.Second), ErrDuplicateJob)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&collector.n) >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestMinDuration(t *testing.T) {
	assert.Equal(t, time.Second, minDuration(time.Second, time.Minute))
	assert.Equal(t, time.Minute, minDuration(time.Hour, time.Minute))
}
