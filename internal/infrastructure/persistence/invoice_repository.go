package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// itemBatchSize bounds the rows per INSERT when storing line items
const itemBatchSize = 100

// GormInvoiceRepository implements invoice.Repository and invoice.NumberPreviewer using GORM
type GormInvoiceRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository. lockTimeout bounds
// the wait for the yearly counter row lock; zero waits for as long as ctx allows.
func NewGormInvoiceRepository(db *gorm.DB, lockTimeout time.Duration) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, lockTimeout: lockTimeout}
}

// Create mints the next number of year's counter and stores the invoice with
// its items in the same transaction. The counter row stays locked until commit,
// so concurrent creations for one year are serialized. On success inv is
// replaced by the rows read back inside the transaction.
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice, year int) error {
	var stored models.InvoiceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.setLockTimeout(tx); err != nil {
			return err
		}

		counter, err := r.lockCounter(tx, year)
		if err != nil {
			return err
		}
		seq, err := counter.Advance()
		if err != nil {
			return err
		}
		if err := tx.Model(&models.CounterModel{}).
			Where("id = ?", counter.ID).
			Updates(map[string]any{
				"sequence":   seq,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		if err := inv.AssignNumber(invoice.FormatNumber(year, seq)); err != nil {
			return err
		}

		model := models.InvoiceModelFromDomain(inv)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.CreateInBatches(model.Items, itemBatchSize).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Items", orderItems).First(&stored, "id = ?", inv.ID).Error
	})
	if err != nil {
		inv.InvoiceNumber = ""
		return translateError(err, "create invoice")
	}
	*inv = *stored.ToDomain()
	return nil
}

// setLockTimeout scopes the lock wait to the current transaction. SQLite
// serializes writers itself and has no equivalent setting.
func (r *GormInvoiceRepository) setLockTimeout(tx *gorm.DB) error {
	if r.lockTimeout <= 0 || tx.Dialector.Name() != DriverPostgres {
		return nil
	}
	return tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())).Error
}

// lockCounter creates year's counter on first use and reads it under a row lock
func (r *GormInvoiceRepository) lockCounter(tx *gorm.DB, year int) (*invoice.Counter, error) {
	now := time.Now().UTC()
	seed := &models.CounterModel{
		ID:        invoice.CounterID(year),
		Year:      year,
		Sequence:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, err
	}

	var row models.CounterModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", seed.ID).
		Take(&row).Error; err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateError(err, "load invoice")
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices matching filter together with the total match count
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter invoice.Filter) ([]invoice.Invoice, int64, error) {
	var total int64
	countQuery := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "count invoices")
	}

	var rows []models.InvoiceModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)
	if err := r.applyFilter(query, filter).
		Preload("Items", orderItems).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "list invoices")
	}

	invoices := make([]invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, total, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoice.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir).Order("id " + orderDir)
}

func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter invoice.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(client_email) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", string(filter.PaymentStatus))
	}
	return query
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Delete removes the items and then the header of an invoice. The yearly
// counter is not touched, so deleted numbers are never issued again.
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.InvoiceModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return translateError(err, "delete invoice")
}

// UpdatePaymentStatus changes only the payment status of an invoice
func (r *GormInvoiceRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status invoice.PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": string(status),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, "update payment status")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type summaryRow struct {
	PaymentStatus string
	Discount      decimal.Decimal
	Subtotal      decimal.Decimal
}

// Summaries returns, per invoice, its payment status, discount and the sum of
// its stored item amounts
func (r *GormInvoiceRepository) Summaries(ctx context.Context) ([]invoice.Summary, error) {
	var rows []summaryRow
	if err := r.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.payment_status AS payment_status, invoices.discount AS discount, " +
			"COALESCE(SUM(invoice_items.amount), 0) AS subtotal").
		Joins("LEFT JOIN invoice_items ON invoice_items.invoice_id = invoices.id").
		Group("invoices.id, invoices.payment_status, invoices.discount").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "aggregate invoices")
	}

	summaries := make([]invoice.Summary, len(rows))
	for i, row := range rows {
		summaries[i] = invoice.Summary{
			PaymentStatus: invoice.PaymentStatus(row.PaymentStatus),
			Discount:      row.Discount,
			Subtotal:      row.Subtotal,
		}
	}
	return summaries, nil
}

// PeekCounter reads year's counter without locking it and returns the number
// the next creation would receive if nothing else commits first
func (r *GormInvoiceRepository) PeekCounter(ctx context.Context, year int) (string, error) {
	var row models.CounterModel
	err := r.db.WithContext(ctx).
		Where("id = ?", invoice.CounterID(year)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invoice.FormatNumber(year, 1), nil
	}
	if err != nil {
		return "", translateError(err, "read invoice counter")
	}
	if row.Sequence < 0 {
		return "", shared.NewDomainError(shared.CodeCorruptSequenceState,
			fmt.Sprintf("Counter %s has negative sequence %d", row.ID, row.Sequence))
	}
	return row.ToDomain().NextNumber(), nil
}

// ScanLatest derives the next number from the highest stored invoice number of
// year. Longer numbers sort first so sequences past 9999 are ordered correctly.
// A stored number that cannot be decoded is reported, never skipped.
func (r *GormInvoiceRepository) ScanLatest(ctx context.Context, year int) (string, error) {
	var latest models.InvoiceModel
	err := r.db.WithContext(ctx).
		Select("invoice_number").
		Where("invoice_number LIKE ?", invoice.YearPrefix(year)+"%").
		Order("LENGTH(invoice_number) DESC").
		Order("invoice_number DESC").
		Take(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invoice.FormatNumber(year, 1), nil
	}
	if err != nil {
		return "", translateError(err, "scan invoice numbers")
	}

	parsed, err := invoice.ParseNumber(latest.InvoiceNumber)
	if err != nil {
		return "", err
	}
	if parsed.YearSuffix != year%100 {
		return "", shared.NewDomainError(shared.CodeCorruptSequenceState,
			fmt.Sprintf("Invoice number %s does not belong to year %d", latest.InvoiceNumber, year))
	}
	return invoice.FormatNumber(year, parsed.Sequence+1), nil
}

var (
	_ invoice.Repository      = (*GormInvoiceRepository)(nil)
	_ invoice.NumberPreviewer = (*GormInvoiceRepository)(nil)
)
