package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	invoiceapp "github.com/invoicing/backend/internal/application/invoice"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client's retry key on create
const IdempotencyKeyHeader = "Idempotency-Key"

// ReplayedHeader marks a create answered from an earlier request
const ReplayedHeader = "Idempotent-Replayed"

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoiceapp.Service
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoiceapp.Service) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CurrentNumberResponse is the legacy form of the next-number preview
type CurrentNumberResponse struct {
	CurrentInvoiceNumber string `json:"currentInvoiceNumber" example:"INV-1000-24-0042"`
}

// Create godoc
// @ID           createInvoice
// @Summary      Create an invoice
// @Description  Validates the invoice, assigns the next number of the current year and stores it with its items.
// @Description  A repeated request with the same Idempotency-Key returns the first invoice with status 200.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client retry key"
// @Param        request body invoiceapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse] "Replayed"
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Counter contention or key in use, retry"
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoiceapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	result, err := h.invoiceService.Create(c.Request.Context(), req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		c.Header(ReplayedHeader, "true")
		h.Success(c, result.Invoice)
		return
	}
	h.Created(c, result.Invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Newest first, items attached. The legacy query forms ?id= and ?current=true return a single invoice and the next number.
// @Tags         invoices
// @Produce      json
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        payment_status query string false "PENDING, COMPLETED, PARTIAL or CANCELLED"
// @Param        search query string false "Client name or invoice number"
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	if id, ok := c.GetQuery("id"); ok {
		h.get(c, id)
		return
	}
	if current, _ := strconv.ParseBool(c.Query("current")); current {
		h.currentNumber(c)
		return
	}

	var req invoiceapp.ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	h.get(c, c.Param("id"))
}

func (h *InvoiceHandler) get(c *gin.Context, rawID string) {
	id, ok := h.parseUUID(c, rawID)
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

func (h *InvoiceHandler) currentNumber(c *gin.Context) {
	preview, err := h.invoiceService.PreviewNextNumber(c.Request.Context(), invoiceapp.PreviewStrategyCounter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CurrentNumberResponse{CurrentInvoiceNumber: preview.InvoiceNumber})
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Description  Removes the invoice and its items. The number is not reused.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[dto.MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	h.delete(c, c.Param("id"))
}

// DeleteByQuery godoc
// @ID           deleteInvoiceByQuery
// @Summary      Delete an invoice (legacy form)
// @Tags         invoices
// @Produce      json
// @Param        id query string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[dto.MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [delete]
func (h *InvoiceHandler) DeleteByQuery(c *gin.Context) {
	rawID := c.Query("id")
	if rawID == "" {
		h.Error(c, dto.ErrCodeValidation, "Invoice ID is required")
		return
	}
	h.delete(c, rawID)
}

func (h *InvoiceHandler) delete(c *gin.Context, rawID string) {
	id, ok := h.parseUUID(c, rawID)
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.MessageData{Message: "Invoice deleted"})
}

// UpdatePaymentStatus godoc
// @ID           updateInvoicePaymentStatus
// @Summary      Change the payment status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body invoiceapp.UpdatePaymentStatusRequest true "New status"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payment-status [patch]
func (h *InvoiceHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := h.parseUUID(c, c.Param("id"))
	if !ok {
		return
	}
	var req invoiceapp.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	h.updatePaymentStatus(c, id.String(), req.PaymentStatus)
}

// UpdatePaymentStatusByBody godoc
// @ID           updateInvoicePaymentStatusByBody
// @Summary      Change the payment status (legacy form)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoiceapp.LegacyUpdatePaymentStatusRequest true "Invoice ID and new status"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/payment-status [patch]
func (h *InvoiceHandler) UpdatePaymentStatusByBody(c *gin.Context) {
	var req invoiceapp.LegacyUpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	h.updatePaymentStatus(c, req.ID, req.PaymentStatus)
}

func (h *InvoiceHandler) updatePaymentStatus(c *gin.Context, rawID, status string) {
	id, ok := h.parseUUID(c, rawID)
	if !ok {
		return
	}
	inv, err := h.invoiceService.UpdatePaymentStatus(c.Request.Context(), id, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// NextNumber godoc
// @ID           previewNextInvoiceNumber
// @Summary      Preview the next invoice number
// @Description  Non-binding: a concurrent creation may take the previewed number first.
// @Tags         invoices
// @Produce      json
// @Param        strategy query string false "counter (default) or scan"
// @Success      200 {object} APIResponse[invoiceapp.NextNumberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	preview, err := h.invoiceService.PreviewNextNumber(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Stats godoc
// @ID           getInvoiceStats
// @Summary      Dashboard statistics
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[invoiceapp.StatsResponse]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/stats [get]
func (h *InvoiceHandler) Stats(c *gin.Context) {
	stats, err := h.invoiceService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ExportPDF godoc
// @ID           exportInvoicePDF
// @Summary      Export an invoice as PDF
// @Description  Streams the PDF, or with store=true uploads it and returns a time-limited download link.
// @Tags         invoices
// @Produce      application/pdf
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        store query bool false "Upload instead of streaming"
// @Success      200 {file} binary
// @Success      201 {object} APIResponse[invoiceapp.StoredDocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	id, ok := h.parseUUID(c, c.Param("id"))
	if !ok {
		return
	}

	if store, _ := strconv.ParseBool(c.Query("store")); store {
		stored, err := h.invoiceService.StorePDF(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, stored)
		return
	}

	doc, err := h.invoiceService.ExportPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
