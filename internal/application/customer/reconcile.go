package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/infrastructure/logger"
	"github.com/silverledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Reconcile replays the customer's ledger and compares the result with the
// cached balance. With repair set, a drifted cache is rewritten to the
// balance of the last ledger entry. Chain breaks are reported, never fixed.
func (s *Service) Reconcile(ctx context.Context, id uuid.UUID, repair bool) (*ReconcileReport, error) {
	unlock, err := s.locker.Lock(ctx, uow.CustomerKey(id.String()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var report ReconcileReport
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		c, err := repos.Customers().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		entries, err := repos.Ledger().FindByCustomer(ctx, id)
		if err != nil {
			return err
		}
		ledgerBalance, breaks := ledger.Replay(entries)

		report = ReconcileReport{
			CustomerID:    c.ID.String(),
			Name:          c.Name,
			CachedBalance: c.CurrentBalance,
			LedgerBalance: ledgerBalance,
			Drift:         c.CurrentBalance.Sub(ledgerBalance),
			Entries:       len(entries),
			Breaks:        breaks,
		}
		if !repair || report.Drift.IsZero() {
			return nil
		}
		c.ApplyBalance(ledgerBalance)
		if err := repos.Customers().SaveWithLock(ctx, c); err != nil {
			return err
		}
		report.Repaired = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Consistent() {
		logger.For(ctx, s.logger).Warn("balance drift detected",
			zap.String("customer_id", report.CustomerID),
			zap.String("cached_balance", report.CachedBalance.String()),
			zap.String("ledger_balance", report.LedgerBalance.String()),
			zap.Int("chain_breaks", len(report.Breaks)),
			zap.Bool("repaired", report.Repaired),
		)
	}
	return &report, nil
}

// ReconcileAll reconciles every customer in creation order
func (s *Service) ReconcileAll(ctx context.Context, repair bool) (*ReconcileSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "reconcile_all",
		telemetry.WithAttribute(telemetry.SpanAttrRepair, repair),
	)
	defer span.End()

	ids, err := s.customers.ListIDs(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	summary := &ReconcileSummary{Reports: []ReconcileReport{}}
	for _, id := range ids {
		report, err := s.Reconcile(ctx, id, repair)
		if shared.IsNotFound(err) {
			continue
		}
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		summary.Checked++
		if report.Consistent() {
			continue
		}
		if !report.Drift.IsZero() {
			summary.Drifted++
		}
		if len(report.Breaks) > 0 {
			summary.Broken++
		}
		if report.Repaired {
			summary.Repaired++
		}
		summary.Reports = append(summary.Reports, *report)
	}
	telemetry.SetAttributes(span, "checked", summary.Checked, "drifted", summary.Drifted, "broken", summary.Broken)
	return summary, nil
}
