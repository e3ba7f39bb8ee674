package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// Filter narrows invoice listings
type Filter struct {
	shared.Filter
	PaymentStatus PaymentStatus
}

// Repository defines the interface for invoice persistence
type Repository interface {
	// Create assigns the next number of year's counter to inv and stores the
	// header and its items. Number assignment and the writes commit or roll
	// back together.
	Create(ctx context.Context, inv *Invoice, year int) error

	// FindByID loads an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll lists invoices newest first with their items
	FindAll(ctx context.Context, filter Filter) ([]Invoice, int64, error)

	// Delete removes the items and then the header of an invoice.
	// The counter is left untouched.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdatePaymentStatus changes only the payment status column
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error

	// Summaries returns per-invoice status, discount and item subtotal
	Summaries(ctx context.Context) ([]Summary, error)
}

// NumberPreviewer offers non-binding previews of the next invoice number.
// A preview may differ from the number actually issued if another creation
// commits first.
type NumberPreviewer interface {
	// PeekCounter reads year's counter without locking it
	PeekCounter(ctx context.Context, year int) (string, error)

	// ScanLatest derives the next number from the highest stored number of year
	ScanLatest(ctx context.Context, year int) (string, error)
}
