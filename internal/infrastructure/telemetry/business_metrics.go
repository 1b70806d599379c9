package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/payment"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metric set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// ShopMetrics tracks sales, collections and balance health. It observes
// the billing and payment services.
type ShopMetrics struct {
	logger *zap.Logger

	billsTotal       *Counter
	salesAmount      *FloatCounter
	fineWeightSold   *FloatCounter
	billWeight       *Histogram
	paymentsTotal    *Counter
	collectedAmount  *FloatCounter
	outstandingTotal *FloatGauge
	customersOwing   *Gauge
	driftedCustomers *Gauge
	brokenLedgers    *Gauge
}

// NewShopMetrics creates the instruments on meter.
func NewShopMetrics(meter metric.Meter, logger *zap.Logger) (*ShopMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &ShopMetrics{logger: logger}
	var err error
	if m.billsTotal, err = NewCounter(meter, "silver_bills_created_total", "Total number of bills committed", "{bills}"); err != nil {
		return nil, err
	}
	if m.salesAmount, err = NewFloatCounter(meter, "silver_sales_amount_total", "Total charge of committed bills in rupees", "{INR}"); err != nil {
		return nil, err
	}
	if m.fineWeightSold, err = NewFloatCounter(meter, "silver_fine_weight_sold_total", "Total fine silver sold in grams", "g"); err != nil {
		return nil, err
	}
	if m.billWeight, err = NewHistogram(meter, HistogramOpts{
		Name:        "silver_bill_weight_grams",
		Description: "Gross weight per bill in grams",
		Unit:        "g",
		Boundaries:  WeightBuckets,
	}); err != nil {
		return nil, err
	}
	if m.paymentsTotal, err = NewCounter(meter, "silver_payments_total", "Total number of payments recorded", "{payments}"); err != nil {
		return nil, err
	}
	if m.collectedAmount, err = NewFloatCounter(meter, "silver_collected_amount_total", "Total collected from payments in rupees", "{INR}"); err != nil {
		return nil, err
	}
	if m.outstandingTotal, err = NewFloatGauge(meter, "silver_outstanding_amount", "Sum of positive customer balances in rupees", "{INR}"); err != nil {
		return nil, err
	}
	if m.customersOwing, err = NewGauge(meter, "silver_customers_owing", "Number of customers with a positive balance", "{customers}"); err != nil {
		return nil, err
	}
	if m.driftedCustomers, err = NewGauge(meter, "silver_ledger_drifted_customers", "Customers whose stored balance differs from the ledger replay", "{customers}"); err != nil {
		return nil, err
	}
	if m.brokenLedgers, err = NewGauge(meter, "silver_ledger_broken_chains", "Customers whose ledger running balance is broken", "{customers}"); err != nil {
		return nil, err
	}
	return m, nil
}

// BillCreated is called for every committed bill
func (m *ShopMetrics) BillCreated(ctx context.Context, bill *billing.Bill) {
	m.billsTotal.Inc(ctx)
	m.salesAmount.Add(ctx, toFloat(bill.Charge()))

	weight, fine := decimal.Zero, decimal.Zero
	for _, item := range bill.Items {
		weight = weight.Add(item.Weight)
		fine = fine.Add(item.Fine)
	}
	m.fineWeightSold.Add(ctx, toFloat(fine))
	m.billWeight.Record(ctx, toFloat(weight))
}

// PaymentRecorded is called for every committed payment
func (m *ShopMetrics) PaymentRecorded(ctx context.Context, p *payment.Payment) {
	method := AttrPaymentMethod.String(string(p.Method))
	m.paymentsTotal.Inc(ctx, method)
	m.collectedAmount.Add(ctx, toFloat(p.Amount), method)
}

// RecordOutstanding records what customers owe in total and how many owe.
func (m *ShopMetrics) RecordOutstanding(ctx context.Context, total decimal.Decimal, customers int) {
	m.outstandingTotal.Record(ctx, toFloat(total))
	m.customersOwing.Record(ctx, int64(customers))
}

// RecordLedgerAudit records the result of a read-only ledger replay over
// all customers.
func (m *ShopMetrics) RecordLedgerAudit(ctx context.Context, checked, drifted, broken int) {
	m.driftedCustomers.Record(ctx, int64(drifted))
	m.brokenLedgers.Record(ctx, int64(broken))
	if drifted > 0 || broken > 0 {
		m.logger.Warn("ledger audit found inconsistent balances",
			zap.Int("checked", checked),
			zap.Int("drifted", drifted),
			zap.Int("broken", broken),
		)
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
