package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	BaseModel
	InvoiceNumber  string             `gorm:"type:varchar(32);not null;uniqueIndex"`
	Date           time.Time          `gorm:"type:date;not null"`
	ClientName     string             `gorm:"type:varchar(200);not null;index"`
	ClientPhone    string             `gorm:"type:varchar(50)"`
	ClientEmail    string             `gorm:"type:varchar(200)"`
	Street         string             `gorm:"type:varchar(200);not null"`
	City           string             `gorm:"type:varchar(100);not null"`
	Country        string             `gorm:"type:varchar(100);not null"`
	Discount       decimal.Decimal    `gorm:"type:decimal(7,4);not null"`
	CurrencyCode   string             `gorm:"type:varchar(3);not null"`
	CurrencySymbol string             `gorm:"type:varchar(8);not null"`
	CurrencyName   string             `gorm:"type:varchar(50);not null"`
	ReferredBy     *string            `gorm:"type:varchar(200)"`
	PaymentStatus  string             `gorm:"type:varchar(20);not null;index"`
	Items          []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
// Stored item amounts are carried over as-is.
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		BaseEntity:    m.BaseModel.ToDomain(),
		InvoiceNumber: m.InvoiceNumber,
		Date:          m.Date,
		ClientName:    m.ClientName,
		ClientPhone:   m.ClientPhone,
		ClientEmail:   m.ClientEmail,
		Street:        m.Street,
		City:          m.City,
		Country:       m.Country,
		Discount:      m.Discount,
		Currency: invoice.Currency{
			Code:   m.CurrencyCode,
			Symbol: m.CurrencySymbol,
			Name:   m.CurrencyName,
		},
		ReferredBy:    m.ReferredBy,
		PaymentStatus: invoice.PaymentStatus(m.PaymentStatus),
		Items:         make([]invoice.InvoiceItem, len(m.Items)),
	}
	for i := range m.Items {
		inv.Items[i] = *m.Items[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoice.Invoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.InvoiceNumber = inv.InvoiceNumber
	m.Date = inv.Date
	m.ClientName = inv.ClientName
	m.ClientPhone = inv.ClientPhone
	m.ClientEmail = inv.ClientEmail
	m.Street = inv.Street
	m.City = inv.City
	m.Country = inv.Country
	m.Discount = inv.Discount
	m.CurrencyCode = inv.Currency.Code
	m.CurrencySymbol = inv.Currency.Symbol
	m.CurrencyName = inv.Currency.Name
	m.ReferredBy = inv.ReferredBy
	m.PaymentStatus = string(inv.PaymentStatus)
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i] = *InvoiceItemModelFromDomain(&inv.Items[i])
		m.Items[i].Position = i
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for InvoiceItem.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    int             `gorm:"not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() *invoice.InvoiceItem {
	return &invoice.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InvoiceItemModelFromDomain creates a persistence model from a domain InvoiceItem
func InvoiceItemModelFromDomain(item *invoice.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		BaseModel: BaseModel{
			ID:        item.ID,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		},
		InvoiceID:   item.InvoiceID,
		Description: item.Description,
		Quantity:    item.Quantity,
		Rate:        item.Rate,
		Amount:      item.Amount,
	}
}

// CounterModel is the persistence model for the per-year invoice counter.
type CounterModel struct {
	ID        string    `gorm:"type:varchar(32);primaryKey"`
	Year      int       `gorm:"not null"`
	Sequence  int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CounterModel) TableName() string {
	return "counters"
}

// ToDomain converts the persistence model to a domain Counter
func (m *CounterModel) ToDomain() *invoice.Counter {
	return &invoice.Counter{
		ID:       m.ID,
		Year:     m.Year,
		Sequence: m.Sequence,
	}
}

// AllModels lists every model managed by this service, in dependency order
func AllModels() []any {
	return []any{
		&CounterModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
	}
}
