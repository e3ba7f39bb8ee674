package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	Date           string              `json:"date" binding:"required" example:"2024-06-01"`
	ClientName     string              `json:"client_name" binding:"required,max=200"`
	ClientPhone    string              `json:"client_phone" binding:"max=50"`
	ClientEmail    string              `json:"client_email" binding:"omitempty,email,max=200"`
	Street         string              `json:"street" binding:"required,max=200"`
	City           string              `json:"city" binding:"required,max=100"`
	Country        string              `json:"country" binding:"required,max=100"`
	Discount       *decimal.Decimal    `json:"discount" swaggertype:"string" example:"10"`
	CurrencyCode   string              `json:"currency_code" binding:"omitempty,currency" example:"USD"`
	CurrencySymbol string              `json:"currency_symbol" binding:"max=8"`
	CurrencyName   string              `json:"currency_name" binding:"max=50"`
	ReferredBy     *string             `json:"referred_by" binding:"omitempty,max=200"`
	Items          []CreateItemRequest `json:"items" binding:"dive"`
}

// CreateItemRequest represents one line item of a new invoice
type CreateItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    int             `json:"quantity" binding:"required,gt=0,max=2147483647"`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string" example:"19.99"`
}

// ListInvoicesRequest represents invoice list query parameters
type ListInvoicesRequest struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,payment_status"`
	Search        string `form:"search" binding:"max=100"`
}

// UpdatePaymentStatusRequest represents a payment status change
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,payment_status" example:"COMPLETED"`
}

// LegacyUpdatePaymentStatusRequest is the body-addressed form of a payment status change
type LegacyUpdatePaymentStatusRequest struct {
	ID            string `json:"id" binding:"required,uuid"`
	PaymentStatus string `json:"paymentStatus" binding:"required,payment_status"`
}

// Preview strategies for the next invoice number
const (
	PreviewStrategyCounter = "counter"
	PreviewStrategyScan    = "scan"
)

// dateLayouts accepted for invoice dates
var dateLayouts = []string{time.DateOnly, time.RFC3339}

func parseInvoiceDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, shared.NewValidationError(shared.FieldError{
		Field:   "date",
		Message: "must be a date in YYYY-MM-DD or RFC 3339 format",
	})
}

// toDraft converts the request into the domain creation input
func (r CreateInvoiceRequest) toDraft() (invoice.Draft, error) {
	date, err := parseInvoiceDate(r.Date)
	if err != nil {
		return invoice.Draft{}, err
	}

	items := make([]invoice.ItemDraft, len(r.Items))
	for i, item := range r.Items {
		items[i] = invoice.ItemDraft{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		}
	}

	return invoice.Draft{
		Date:           date,
		ClientName:     r.ClientName,
		ClientPhone:    r.ClientPhone,
		ClientEmail:    r.ClientEmail,
		Street:         r.Street,
		City:           r.City,
		Country:        r.Country,
		Discount:       r.Discount,
		CurrencyCode:   r.CurrencyCode,
		CurrencySymbol: r.CurrencySymbol,
		CurrencyName:   r.CurrencyName,
		ReferredBy:     r.ReferredBy,
		Items:          items,
	}, nil
}

// =============================================================================
// Response DTOs
// =============================================================================

// InvoiceItemResponse represents a line item in responses
type InvoiceItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Rate        string    `json:"rate" example:"19.99"`
	Amount      string    `json:"amount" example:"59.97"`
}

// InvoiceResponse represents an invoice with its items and derived totals
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number" example:"INV-1000-24-0001"`
	Date           string                `json:"date" example:"2024-06-01"`
	ClientName     string                `json:"client_name"`
	ClientPhone    string                `json:"client_phone"`
	ClientEmail    string                `json:"client_email"`
	Street         string                `json:"street"`
	City           string                `json:"city"`
	Country        string                `json:"country"`
	Discount       string                `json:"discount" example:"10.00"`
	CurrencyCode   string                `json:"currency_code" example:"USD"`
	CurrencySymbol string                `json:"currency_symbol" example:"$"`
	CurrencyName   string                `json:"currency_name" example:"US Dollar"`
	ReferredBy     *string               `json:"referred_by"`
	PaymentStatus  string                `json:"payment_status" example:"PENDING"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       string                `json:"subtotal" example:"100.00"`
	DiscountAmount string                `json:"discount_amount" example:"10.00"`
	Total          string                `json:"total" example:"90.00"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// CreateInvoiceResult is the outcome of a create request
type CreateInvoiceResult struct {
	Invoice *InvoiceResponse
	// Replayed is true when the invoice was created by an earlier request
	// carrying the same idempotency key
	Replayed bool
}

// NextNumberResponse is a non-binding preview of the next invoice number
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number" example:"INV-1000-24-0042"`
	Provisional   bool   `json:"provisional" example:"true"`
	Source        string `json:"source" example:"counter"`
	Year          int    `json:"year" example:"2024"`
}

// StatusStatsResponse aggregates invoices of one payment status
type StatusStatsResponse struct {
	Count  int64  `json:"count"`
	Amount string `json:"amount"`
}

// StatsResponse is the dashboard summary
type StatsResponse struct {
	TotalInvoices  int64                          `json:"total_invoices"`
	TotalAmount    string                         `json:"total_amount"`
	ByStatus       map[string]StatusStatsResponse `json:"by_status"`
	CompletionRate string                         `json:"completion_rate" example:"66.7"`
}

// CurrencyResponse describes an allow-listed currency
type CurrencyResponse struct {
	Code   string `json:"code" example:"EUR"`
	Symbol string `json:"symbol" example:"€"`
	Name   string `json:"name" example:"Euro"`
}

// PDFDocument is a rendered invoice document
type PDFDocument struct {
	Filename string
	Data     []byte
}

// StoredDocumentResponse points at an uploaded invoice document
type StoredDocumentResponse struct {
	Key       string    `json:"key" example:"invoices/2024/INV-1000-24-0001.pdf"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToInvoiceResponse converts a domain invoice into its response form
func ToInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	totals := inv.Totals()

	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		}
	}

	return &InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		Date:           inv.Date.Format(time.DateOnly),
		ClientName:     inv.ClientName,
		ClientPhone:    inv.ClientPhone,
		ClientEmail:    inv.ClientEmail,
		Street:         inv.Street,
		City:           inv.City,
		Country:        inv.Country,
		Discount:       inv.Discount.StringFixed(2),
		CurrencyCode:   inv.Currency.Code,
		CurrencySymbol: inv.Currency.Symbol,
		CurrencyName:   inv.Currency.Name,
		ReferredBy:     inv.ReferredBy,
		PaymentStatus:  inv.PaymentStatus.String(),
		Items:          items,
		Subtotal:       totals.Subtotal.StringFixed(2),
		DiscountAmount: totals.DiscountAmount.StringFixed(2),
		Total:          totals.Total.StringFixed(2),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// ToStatsResponse converts dashboard statistics into their response form
func ToStatsResponse(stats invoice.Stats) *StatsResponse {
	byStatus := make(map[string]StatusStatsResponse, len(stats.ByStatus))
	for status, s := range stats.ByStatus {
		byStatus[status.String()] = StatusStatsResponse{
			Count:  s.Count,
			Amount: s.Amount.StringFixed(2),
		}
	}
	return &StatsResponse{
		TotalInvoices:  stats.TotalInvoices,
		TotalAmount:    stats.TotalAmount.StringFixed(2),
		ByStatus:       byStatus,
		CompletionRate: stats.CompletionRate.StringFixed(1),
	}
}

// ToCurrencyResponses lists the allow-listed currencies
func ToCurrencyResponses(currencies []invoice.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		out[i] = CurrencyResponse{Code: c.Code, Symbol: c.Symbol, Name: c.Name}
	}
	return out
}
