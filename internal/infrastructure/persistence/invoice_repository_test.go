package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newTestInvoice(t *testing.T, client string, items ...invoice.ItemDraft) *invoice.Invoice {
	t.Helper()
	if len(items) == 0 {
		items = []invoice.ItemDraft{
			{Description: "Consulting", Quantity: 2, Rate: decimal.RequireFromString("100.00")},
		}
	}
	inv, err := invoice.NewInvoice(invoice.Draft{
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ClientName:  client,
		ClientEmail: "billing@example.com",
		Street:      "1 Main St",
		City:        "Springfield",
		Country:     "US",
		Items:       items,
	})
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers are sequential per year", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

		first := newTestInvoice(t, "Acme")
		second := newTestInvoice(t, "Globex")
		require.NoError(t, repo.Create(ctx, first, 2024))
		require.NoError(t, repo.Create(ctx, second, 2024))

		assert.Equal(t, "INV-1000-24-0001", first.InvoiceNumber)
		assert.Equal(t, "INV-1000-24-0002", second.InvoiceNumber)
	})

	t.Run("each year has its own counter", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

		a := newTestInvoice(t, "Acme")
		b := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, a, 2024))
		require.NoError(t, repo.Create(ctx, b, 2025))

		assert.Equal(t, "INV-1000-24-0001", a.InvoiceNumber)
		assert.Equal(t, "INV-1000-25-0001", b.InvoiceNumber)
	})

	t.Run("stores header and items", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)
		inv := newTestInvoice(t, "Acme",
			invoice.ItemDraft{Description: "Widget", Quantity: 3, Rate: decimal.RequireFromString("19.99")},
			invoice.ItemDraft{Description: "Setup", Quantity: 1, Rate: decimal.RequireFromString("40.03")},
		)
		require.NoError(t, repo.Create(ctx, inv, 2024))

		loaded, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.InvoiceNumber, loaded.InvoiceNumber)
		assert.Equal(t, "Acme", loaded.ClientName)
		assert.Equal(t, invoice.PaymentStatusPending, loaded.PaymentStatus)
		assert.Equal(t, "USD", loaded.Currency.Code)
		require.Len(t, loaded.Items, 2)
		assert.Equal(t, "Widget", loaded.Items[0].Description)
		assert.True(t, loaded.Items[0].Amount.Equal(decimal.RequireFromString("59.97")), loaded.Items[0].Amount.String())
		assert.Equal(t, "Setup", loaded.Items[1].Description)
		assert.True(t, loaded.Totals().Subtotal.Equal(decimal.RequireFromString("100")), loaded.Totals().Subtotal.String())
	})

	t.Run("failed insert leaves the counter untouched", func(t *testing.T) {
		db := setupInvoiceTestDB(t)
		repo := NewGormInvoiceRepository(db, time.Second)

		first := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, first, 2024))

		// same primary key as an existing invoice
		dup := newTestInvoice(t, "Acme")
		dup.ID = first.ID
		err := repo.Create(ctx, dup, 2024)
		require.Error(t, err)
		assert.Equal(t, shared.CodeConflict, shared.CodeOf(err))
		assert.Empty(t, dup.InvoiceNumber)

		next, err := repo.PeekCounter(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, "INV-1000-24-0002", next)
	})

	t.Run("corrupt counter aborts creation", func(t *testing.T) {
		db := setupInvoiceTestDB(t)
		now := time.Now().UTC()
		require.NoError(t, db.Create(&models.CounterModel{
			ID: invoice.CounterID(2024), Year: 2024, Sequence: -1, CreatedAt: now, UpdatedAt: now,
		}).Error)
		repo := NewGormInvoiceRepository(db, time.Second)

		inv := newTestInvoice(t, "Acme")
		err := repo.Create(ctx, inv, 2024)
		require.Error(t, err)
		assert.Equal(t, shared.CodeCorruptSequenceState, shared.CodeOf(err))

		var count int64
		require.NoError(t, db.Model(&models.InvoiceModel{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted numbers are not reused", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

		first := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, first, 2024))
		require.NoError(t, repo.Delete(ctx, first.ID))

		_, err := repo.FindByID(ctx, first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		second := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, second, 2024))
		assert.Equal(t, "INV-1000-24-0002", second.InvoiceNumber)
	})

	t.Run("removes items", func(t *testing.T) {
		db := setupInvoiceTestDB(t)
		repo := NewGormInvoiceRepository(db, time.Second)

		inv := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, inv, 2024))
		require.NoError(t, repo.Delete(ctx, inv.ID))

		var count int64
		require.NoError(t, db.Model(&models.InvoiceItemModel{}).Where("invoice_id = ?", inv.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("unknown id is not found and leaves the counter alone", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

		inv := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, inv, 2024))

		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		next, err := repo.PeekCounter(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, "INV-1000-24-0002", next)
	})
}

func TestGormInvoiceRepository_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

	inv := newTestInvoice(t, "Acme")
	require.NoError(t, repo.Create(ctx, inv, 2024))

	t.Run("updates status only", func(t *testing.T) {
		require.NoError(t, repo.UpdatePaymentStatus(ctx, inv.ID, invoice.PaymentStatusCompleted))

		loaded, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.PaymentStatusCompleted, loaded.PaymentStatus)
		assert.Equal(t, inv.InvoiceNumber, loaded.InvoiceNumber)
		assert.Len(t, loaded.Items, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := repo.UpdatePaymentStatus(ctx, uuid.New(), invoice.PaymentStatusCancelled)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

	for _, client := range []string{"Acme", "Globex", "Initech"} {
		require.NoError(t, repo.Create(ctx, newTestInvoice(t, client), 2024))
	}
	all, _, err := repo.FindAll(ctx, invoice.Filter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NoError(t, repo.UpdatePaymentStatus(ctx, all[0].ID, invoice.PaymentStatusCompleted))

	t.Run("pagination", func(t *testing.T) {
		filter := invoice.Filter{Filter: shared.Filter{Page: 2, PageSize: 2}}
		page, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, page, 1)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		filter := invoice.Filter{Filter: shared.Filter{Page: 1, PageSize: 20, Search: "gLoBeX"}}
		found, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, found, 1)
		assert.Equal(t, "Globex", found[0].ClientName)
		assert.Len(t, found[0].Items, 1)
	})

	t.Run("search by number", func(t *testing.T) {
		filter := invoice.Filter{Filter: shared.Filter{Page: 1, PageSize: 20, Search: "24-0003"}}
		found, _, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "INV-1000-24-0003", found[0].InvoiceNumber)
	})

	t.Run("status filter", func(t *testing.T) {
		filter := invoice.Filter{
			Filter:        shared.Filter{Page: 1, PageSize: 20},
			PaymentStatus: invoice.PaymentStatusPending,
		}
		found, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, inv := range found {
			assert.Equal(t, invoice.PaymentStatusPending, inv.PaymentStatus)
		}
	})
}

func TestGormInvoiceRepository_Summaries(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

	inv := newTestInvoice(t, "Acme",
		invoice.ItemDraft{Description: "A", Quantity: 1, Rate: decimal.RequireFromString("150")},
		invoice.ItemDraft{Description: "B", Quantity: 2, Rate: decimal.RequireFromString("25")},
	)
	ten := decimal.NewFromInt(10)
	inv.Discount = ten
	require.NoError(t, repo.Create(ctx, inv, 2024))

	summaries, err := repo.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, invoice.PaymentStatusPending, summaries[0].PaymentStatus)
	assert.True(t, summaries[0].Subtotal.Equal(decimal.NewFromInt(200)), summaries[0].Subtotal.String())
	assert.True(t, summaries[0].Discount.Equal(ten))

	stats := invoice.ComputeStats(summaries)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(180)), stats.TotalAmount.String())
}

func TestGormInvoiceRepository_Previews(t *testing.T) {
	ctx := context.Background()

	t.Run("empty year starts at one", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)

		peek, err := repo.PeekCounter(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, "INV-1000-24-0001", peek)

		scan, err := repo.ScanLatest(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, "INV-1000-24-0001", scan)
	})

	t.Run("previews do not consume numbers", func(t *testing.T) {
		repo := NewGormInvoiceRepository(setupInvoiceTestDB(t), time.Second)
		require.NoError(t, repo.Create(ctx, newTestInvoice(t, "Acme"), 2024))

		for i := 0; i < 3; i++ {
			peek, err := repo.PeekCounter(ctx, 2024)
			require.NoError(t, err)
			assert.Equal(t, "INV-1000-24-0002", peek)
		}

		inv := newTestInvoice(t, "Acme")
		require.NoError(t, repo.Create(ctx, inv, 2024))
		assert.Equal(t, "INV-1000-24-0002", inv.InvoiceNumber)
	})

	t.Run("scan orders widened sequences numerically", func(t *testing.T) {
		db := setupInvoiceTestDB(t)
		repo := NewGormInvoiceRepository(db, time.Second)
		for _, number := range []string{"INV-1000-24-9999", "INV-1000-24-10000", "INV-1000-23-0500"} {
			inv := newTestInvoice(t, "Acme")
			inv.InvoiceNumber = number
			require.NoError(t, db.Omit("Items").Create(models.InvoiceModelFromDomain(inv)).Error)
		}

		scan, err := repo.ScanLatest(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, "INV-1000-24-10001", scan)
	})

	t.Run("scan fails closed on an unparsable number", func(t *testing.T) {
		db := setupInvoiceTestDB(t)
		repo := NewGormInvoiceRepository(db, time.Second)
		inv := newTestInvoice(t, "Acme")
		inv.InvoiceNumber = "INV-1000-24-00A1"
		require.NoError(t, db.Omit("Items").Create(models.InvoiceModelFromDomain(inv)).Error)

		_, err := repo.ScanLatest(ctx, 2024)
		require.Error(t, err)
		assert.Equal(t, shared.CodeCorruptSequenceState, shared.CodeOf(err))
	})
}
