package router

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/infrastructure/auth"
	"github.com/invoicing/backend/internal/interfaces/http/handler"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
)

// Access holds the per-route guards. A nil guard lets the request through.
type Access struct {
	Read  gin.HandlerFunc
	Write gin.HandlerFunc
}

// ScopedAccess requires the invoices:read and invoices:write token scopes
func ScopedAccess() Access {
	return Access{
		Read:  middleware.RequireScope(auth.ScopeInvoicesRead),
		Write: middleware.RequireScope(auth.ScopeInvoicesWrite),
	}
}

func guarded(guard, h gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{guard, h}
}

// InvoiceRoutes registers the invoice endpoints. Static segments are
// declared before the :id routes they sit next to.
func InvoiceRoutes(h *handler.InvoiceHandler, access Access) *DomainGroup {
	g := NewDomainGroup("invoices", "/invoices")

	g.POST("", guarded(access.Write, h.Create)...)
	g.GET("", guarded(access.Read, h.List)...)
	g.DELETE("", guarded(access.Write, h.DeleteByQuery)...)

	g.GET("/next-number", guarded(access.Read, h.NextNumber)...)
	g.GET("/stats", guarded(access.Read, h.Stats)...)
	g.PATCH("/payment-status", guarded(access.Write, h.UpdatePaymentStatusByBody)...)

	g.GET("/:id", guarded(access.Read, h.Get)...)
	g.DELETE("/:id", guarded(access.Write, h.Delete)...)
	g.PATCH("/:id/payment-status", guarded(access.Write, h.UpdatePaymentStatus)...)
	g.GET("/:id/pdf", guarded(access.Read, h.ExportPDF)...)

	return g
}

// CurrencyRoutes registers the currency allow-list endpoint
func CurrencyRoutes(h *handler.CurrencyHandler, access Access) *DomainGroup {
	g := NewDomainGroup("currencies", "/currencies")
	g.GET("", guarded(access.Read, h.List)...)
	return g
}
