package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxIdempotencyKeyLength bounds client-supplied Idempotency-Key values
const maxIdempotencyKeyLength = 255

const pdfContentType = "application/pdf"

// DocumentRenderer renders an invoice into a PDF document
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, inv *invoice.Invoice) ([]byte, error)
}

// DocumentStorage keeps rendered documents and hands out download links
type DocumentStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// Service handles invoice business operations
type Service struct {
	repo           invoice.Repository
	previewer      invoice.NumberPreviewer
	clock          invoice.Clock
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	renderer       DocumentRenderer
	storage        DocumentStorage
	metrics        *telemetry.InvoiceMetrics
	logger         *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used to pick the numbering year
func WithClock(clock invoice.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithIdempotency enables Idempotency-Key handling on Create
func WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithRenderer enables PDF export
func WithRenderer(r DocumentRenderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithStorage enables uploading exported documents
func WithStorage(storage DocumentStorage) Option {
	return func(s *Service) {
		s.storage = storage
	}
}

// WithMetrics records business metrics
func WithMetrics(m *telemetry.InvoiceMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new invoice Service
func NewService(repo invoice.Repository, previewer invoice.NumberPreviewer, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		previewer:      previewer,
		clock:          invoice.SystemClock{},
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req, assigns the next number of the current year and
// stores the invoice. When idempotencyKey is set, a repeated request returns
// the invoice created by the first one.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, idempotencyKey string) (*CreateInvoiceResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SpanAttrItemCount, len(req.Items),
		telemetry.SpanAttrCurrency, req.CurrencyCode,
	)
	defer span.End()

	draft, err := req.toDraft()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	inv, err := invoice.NewInvoice(draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		replay, err := s.reserveKey(ctx, idempotencyKey)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if replay != nil {
			telemetry.SetAttributes(span, telemetry.SpanAttrIdempotent, true)
			s.metrics.RecordIdempotentReplay(ctx)
			return &CreateInvoiceResult{Invoice: replay, Replayed: true}, nil
		}
	} else {
		idempotencyKey = ""
	}

	year := s.clock.Now().Year()
	telemetry.SetAttributes(span, telemetry.SpanAttrYear, year)

	start := time.Now()
	err = s.repo.Create(ctx, inv, year)
	s.metrics.RecordNumbering(ctx, time.Since(start), numberingOutcome(err))
	if err != nil {
		telemetry.RecordError(span, err)
		if idempotencyKey != "" {
			s.releaseKey(ctx, idempotencyKey)
		}
		s.log(ctx).Warn("Invoice creation failed",
			zap.Int("year", year),
			zap.String("code", shared.CodeOf(err)),
			zap.Error(err))
		return nil, err
	}

	if idempotencyKey != "" {
		if err := s.idempotency.Complete(ctx, idempotencyKey, inv.ID.String(), s.idempotencyTTL); err != nil {
			s.log(ctx).Error("Failed to record idempotency key", zap.String("idempotency_key", idempotencyKey), zap.Error(err))
		}
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, inv.ID.String(),
		telemetry.SpanAttrInvoiceNumber, inv.InvoiceNumber,
	)
	s.metrics.RecordCreated(ctx, inv.Currency.Code, inv.Totals().Total)
	s.log(ctx).Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber))

	return &CreateInvoiceResult{Invoice: ToInvoiceResponse(inv)}, nil
}

// reserveKey claims key. It returns the stored invoice when key already
// completed, and a conflict while the first request is still running.
func (s *Service) reserveKey(ctx context.Context, key string) (*InvoiceResponse, error) {
	if len(key) > maxIdempotencyKeyLength {
		return nil, shared.NewValidationError(shared.FieldError{
			Field:   "Idempotency-Key",
			Message: fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLength),
		})
	}

	reserved, err := s.idempotency.Reserve(ctx, key, s.idempotencyTTL)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeUnavailable, "Idempotency store unavailable", err)
	}
	if reserved {
		return nil, nil
	}

	result, pending, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeUnavailable, "Idempotency store unavailable", err)
	}
	if !found || pending {
		return nil, shared.NewDomainError(shared.CodeConflict,
			"A request with this Idempotency-Key is already in progress")
	}

	id, err := uuid.Parse(result)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodePersistence, "Stored idempotency result is invalid", err)
	}
	inv, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		// the key stays spent until its TTL runs out
		return nil, shared.NewDomainError(shared.CodeConflict,
			"Idempotency-Key was already used for an invoice that has since been deleted")
	}
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.log(ctx).Warn("Failed to release idempotency key", zap.String("idempotency_key", key), zap.Error(err))
	}
}

func numberingOutcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, shared.ErrContention):
		return telemetry.OutcomeContention
	case errors.Is(err, shared.ErrConflict):
		return telemetry.OutcomeConflict
	default:
		return telemetry.OutcomeError
	}
}

// GetByID retrieves an invoice with its items
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List returns a page of invoices, newest first
func (s *Service) List(ctx context.Context, req ListInvoicesRequest) (shared.Paginated[InvoiceResponse], error) {
	filter := invoice.Filter{Filter: shared.DefaultFilter()}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = min(req.PageSize, 100)
	}
	filter.Search = req.Search

	if req.PaymentStatus != "" {
		status, err := invoice.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return shared.Paginated[InvoiceResponse]{}, err
		}
		filter.PaymentStatus = status
	}

	invoices, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}

	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = *ToInvoiceResponse(&invoices[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Delete removes an invoice and its items. Its number is never reissued.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "delete", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.metrics.RecordDeleted(ctx)
	s.log(ctx).Info("Invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}

// UpdatePaymentStatus changes the payment status and returns the updated invoice
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update_payment_status",
		telemetry.SpanAttrInvoiceID, id.String(),
		telemetry.SpanAttrPaymentStatus, rawStatus,
	)
	defer span.End()

	status, err := invoice.ParsePaymentStatus(rawStatus)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordPaymentStatusChange(ctx, status.String())

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// PreviewNextNumber returns the number the next creation in the current year
// would most likely receive. The preview consumes nothing.
func (s *Service) PreviewNextNumber(ctx context.Context, strategy string) (*NextNumberResponse, error) {
	if strategy == "" {
		strategy = PreviewStrategyCounter
	}
	year := s.clock.Now().Year()

	var (
		number string
		err    error
	)
	switch strategy {
	case PreviewStrategyCounter:
		number, err = s.previewer.PeekCounter(ctx, year)
	case PreviewStrategyScan:
		number, err = s.previewer.ScanLatest(ctx, year)
	default:
		return nil, shared.NewValidationError(shared.FieldError{
			Field:   "strategy",
			Message: "must be one of counter, scan",
		})
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPreview(ctx, strategy)
	return &NextNumberResponse{
		InvoiceNumber: number,
		Provisional:   true,
		Source:        strategy,
		Year:          year,
	}, nil
}

// Stats returns dashboard statistics over all invoices
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	summaries, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	return ToStatsResponse(invoice.ComputeStats(summaries)), nil
}

// Currencies lists the supported currencies
func (s *Service) Currencies() []CurrencyResponse {
	return ToCurrencyResponses(invoice.SupportedCurrencies())
}

// ExportPDF renders an invoice as a PDF document
func (s *Service) ExportPDF(ctx context.Context, id uuid.UUID) (*PDFDocument, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "export_pdf", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	inv, data, err := s.renderPDF(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &PDFDocument{Filename: inv.InvoiceNumber + ".pdf", Data: data}, nil
}

// StorePDF renders an invoice, uploads it and returns a time-limited download link
func (s *Service) StorePDF(ctx context.Context, id uuid.UUID) (*StoredDocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "store_pdf", telemetry.SpanAttrInvoiceID, id.String())
	defer span.End()

	if s.storage == nil {
		return nil, shared.NewDomainError(shared.CodeUnavailable, "Document storage is not configured")
	}
	inv, data, err := s.renderPDF(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	key := DocumentKey(inv)
	if err := s.storage.Upload(ctx, key, data, pdfContentType); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError(shared.CodeUnavailable, "Failed to store document", err)
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError(shared.CodeUnavailable, "Failed to sign document URL", err)
	}

	s.log(ctx).Info("Invoice document stored",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("key", key))
	return &StoredDocumentResponse{Key: key, URL: url, ExpiresAt: expiresAt}, nil
}

// DocumentKey is the object key of an invoice's exported PDF
func DocumentKey(inv *invoice.Invoice) string {
	return fmt.Sprintf("invoices/%d/%s.pdf", inv.CreatedAt.Year(), inv.InvoiceNumber)
}

func (s *Service) renderPDF(ctx context.Context, id uuid.UUID) (*invoice.Invoice, []byte, error) {
	if s.renderer == nil {
		return nil, nil, shared.NewDomainError(shared.CodeUnavailable, "PDF export is not enabled")
	}
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.renderer.RenderPDF(ctx, inv)
	if err != nil {
		return nil, nil, shared.WrapDomainError(shared.CodeUnavailable, "Failed to render invoice document", err)
	}
	return inv, data, nil
}

func (s *Service) log(ctx context.Context) *logger.ContextLogger {
	if _, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); !ok {
		ctx = logger.WithContext(ctx, s.logger)
	}
	return logger.L(ctx)
}
