package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Numbering outcomes recorded on invoice_numbering_duration_seconds
const (
	OutcomeSuccess    = "success"
	OutcomeContention = "contention"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// InvoiceMetrics records invoicing activity. A nil *InvoiceMetrics is valid
// and records nothing.
type InvoiceMetrics struct {
	created           *Counter
	deleted           *Counter
	statusChanges     *Counter
	idempotentReplays *Counter
	previews          *Counter
	amount            *Histogram
	numbering         *Histogram
}

// NewInvoiceMetrics registers the invoicing instruments on meter
func NewInvoiceMetrics(meter metric.Meter) (*InvoiceMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &InvoiceMetrics{}
	var err error

	if m.created, err = NewCounter(meter, "invoices_created_total",
		"Invoices created", "{invoice}"); err != nil {
		return nil, err
	}
	if m.deleted, err = NewCounter(meter, "invoices_deleted_total",
		"Invoices deleted", "{invoice}"); err != nil {
		return nil, err
	}
	if m.statusChanges, err = NewCounter(meter, "invoice_payment_status_changes_total",
		"Payment status updates by target status", "{update}"); err != nil {
		return nil, err
	}
	if m.idempotentReplays, err = NewCounter(meter, "invoice_idempotent_replays_total",
		"Create requests answered from the idempotency store", "{request}"); err != nil {
		return nil, err
	}
	if m.previews, err = NewCounter(meter, "invoice_number_previews_total",
		"Next-number previews by strategy", "{request}"); err != nil {
		return nil, err
	}
	if m.amount, err = NewHistogram(meter, HistogramOpts{
		Name:        "invoice_total_amount",
		Description: "Discounted total of created invoices",
		Unit:        "{currency}",
		Boundaries:  []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000},
	}); err != nil {
		return nil, err
	}
	if m.numbering, err = NewHistogram(meter, HistogramOpts{
		Name:        "invoice_numbering_duration_seconds",
		Description: "Time spent in the numbering transaction, lock wait included",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCreated counts a committed invoice and its total
func (m *InvoiceMetrics) RecordCreated(ctx context.Context, currency string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.created.Inc(ctx, AttrCurrency.String(currency))
	m.amount.Record(ctx, total.InexactFloat64(), AttrCurrency.String(currency))
}

// RecordNumbering records how long a numbering transaction took and how it ended
func (m *InvoiceMetrics) RecordNumbering(ctx context.Context, d time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.numbering.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// RecordDeleted counts a deleted invoice
func (m *InvoiceMetrics) RecordDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.deleted.Inc(ctx)
}

// RecordPaymentStatusChange counts a status update
func (m *InvoiceMetrics) RecordPaymentStatusChange(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.statusChanges.Inc(ctx, AttrPaymentStatus.String(status))
}

// RecordIdempotentReplay counts a create answered from a stored result
func (m *InvoiceMetrics) RecordIdempotentReplay(ctx context.Context) {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc(ctx)
}

// RecordPreview counts a next-number preview
func (m *InvoiceMetrics) RecordPreview(ctx context.Context, strategy string) {
	if m == nil {
		return
	}
	m.previews.Inc(ctx, AttrStrategy.String(strategy))
}
