package handler

import (
	"github.com/gin-gonic/gin"
	invoiceapp "github.com/invoicing/backend/internal/application/invoice"
)

// CurrencyHandler serves the currency allow-list
type CurrencyHandler struct {
	BaseHandler
	invoiceService *invoiceapp.Service
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(invoiceService *invoiceapp.Service) *CurrencyHandler {
	return &CurrencyHandler{invoiceService: invoiceService}
}

// List godoc
// @ID           listCurrencies
// @Summary      List supported currencies
// @Tags         currencies
// @Produce      json
// @Success      200 {object} APIResponse[[]invoiceapp.CurrencyResponse]
// @Router       /currencies [get]
func (h *CurrencyHandler) List(c *gin.Context) {
	h.Success(c, h.invoiceService.Currencies())
}
