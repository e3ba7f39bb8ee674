package invoice

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Money values are stored as NUMERIC(18,4) and discounts as NUMERIC(7,4).
const MoneyScale = 4

var (
	hundred = decimal.NewFromInt(100)
	// maxMoney is the first value a NUMERIC(18,4) column cannot hold
	maxMoney = decimal.New(1, 14)
)

// MaxQuantity is the largest quantity the INTEGER column holds
const MaxQuantity = math.MaxInt32

// fitsScale reports whether d has at most MoneyScale fractional digits
func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// InvoiceItem is a line of an invoice. Amount is fixed at creation time and
// never re-derived from quantity and rate afterwards.
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    int
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvoiceItem creates a line item and computes its amount
func NewInvoiceItem(description string, quantity int, rate decimal.Decimal) (*InvoiceItem, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewValidationError(shared.FieldError{Field: "description", Message: "is required"})
	}
	if quantity < 1 {
		return nil, shared.NewDomainError(CodeInvalidQuantity, "Quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return nil, shared.NewDomainError(CodeInvalidQuantity, "Quantity is too large")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError(CodeInvalidRate, "Rate cannot be negative")
	}
	if !fitsScale(rate) {
		return nil, shared.NewDomainError(CodeInvalidRate, "Rate supports at most 4 decimal places")
	}
	// amount >= rate for any valid quantity, so this bounds both columns
	amount := rate.Mul(decimal.NewFromInt(int64(quantity)))
	if amount.GreaterThanOrEqual(maxMoney) {
		return nil, shared.NewDomainError(CodeInvalidRate, "Line amount exceeds the supported maximum")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Rate:        rate,
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Invoice is the aggregate root: a header and the items it owns
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber string
	Date          time.Time
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	Street        string
	City          string
	Country       string
	Discount      decimal.Decimal // percentage, 0-100
	Currency      Currency
	ReferredBy    *string
	PaymentStatus PaymentStatus
	Items         []InvoiceItem
}

// ItemDraft is the unvalidated input for one line item
type ItemDraft struct {
	Description string
	Quantity    int
	Rate        decimal.Decimal
}

// Draft is the unvalidated input for a new invoice
type Draft struct {
	Date           time.Time
	ClientName     string
	ClientPhone    string
	ClientEmail    string
	Street         string
	City           string
	Country        string
	Discount       *decimal.Decimal
	CurrencyCode   string
	CurrencySymbol string
	CurrencyName   string
	ReferredBy     *string
	Items          []ItemDraft
}

// NewInvoice validates a draft and builds an invoice without a number.
// The number is assigned later inside the persistence transaction.
func NewInvoice(d Draft) (*Invoice, error) {
	var fields []shared.FieldError
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, shared.FieldError{Field: field, Message: "is required"})
		}
	}
	if d.Date.IsZero() {
		fields = append(fields, shared.FieldError{Field: "date", Message: "is required"})
	}
	required("client_name", d.ClientName)
	required("street", d.Street)
	required("city", d.City)
	required("country", d.Country)
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields...)
	}

	discount := decimal.Zero
	if d.Discount != nil {
		discount = *d.Discount
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return nil, shared.NewDomainError(CodeInvalidDiscount, "Discount must be between 0 and 100")
	}
	if !fitsScale(discount) {
		return nil, shared.NewDomainError(CodeInvalidDiscount, "Discount supports at most 4 decimal places")
	}

	currency, err := ResolveCurrency(d.CurrencyCode, d.CurrencySymbol, d.CurrencyName)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		BaseEntity:    shared.NewBaseEntity(),
		Date:          d.Date,
		ClientName:    strings.TrimSpace(d.ClientName),
		ClientPhone:   strings.TrimSpace(d.ClientPhone),
		ClientEmail:   strings.TrimSpace(d.ClientEmail),
		Street:        strings.TrimSpace(d.Street),
		City:          strings.TrimSpace(d.City),
		Country:       strings.TrimSpace(d.Country),
		Discount:      discount,
		Currency:      currency,
		ReferredBy:    normalizeOptional(d.ReferredBy),
		PaymentStatus: PaymentStatusPending,
		Items:         make([]InvoiceItem, 0, len(d.Items)),
	}

	for _, draft := range d.Items {
		if err := inv.AddItem(draft.Description, draft.Quantity, draft.Rate); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// AddItem appends a new line item owned by this invoice
func (i *Invoice) AddItem(description string, quantity int, rate decimal.Decimal) error {
	item, err := NewInvoiceItem(description, quantity, rate)
	if err != nil {
		return err
	}
	item.InvoiceID = i.ID
	i.Items = append(i.Items, *item)
	return nil
}

// AssignNumber sets the invoice number once. Numbers are never reassigned.
func (i *Invoice) AssignNumber(number string) error {
	if i.InvoiceNumber != "" {
		return shared.NewDomainError(CodeNumberAssigned, "Invoice number is already assigned")
	}
	if _, err := ParseNumber(number); err != nil {
		return err
	}
	i.InvoiceNumber = number
	return nil
}

// UpdatePaymentStatus changes the payment status
func (i *Invoice) UpdatePaymentStatus(status PaymentStatus) error {
	if !i.PaymentStatus.CanTransitionTo(status) {
		return shared.NewDomainError(CodeInvalidPaymentStatus, "Invalid payment status: "+status.String())
	}
	i.PaymentStatus = status
	i.UpdatedAt = time.Now()
	return nil
}

// Totals recomputes the derived amounts from the stored item amounts
func (i *Invoice) Totals() Totals {
	return ComputeTotals(i.Items, i.Discount)
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
