package printing

import (
	"context"
	"errors"
	"time"

	"github.com/invoicing/backend/internal/domain/invoice"
)

// PrinterOptions configures page layout for rendered invoices
type PrinterOptions struct {
	PaperSize PaperSize
	MarginMM  float64
	Timeout   time.Duration
}

// InvoicePrinter renders invoices to HTML and PDF
type InvoicePrinter struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	opts     PrinterOptions
}

// invoiceView is the data bound to the invoice template
type invoiceView struct {
	Invoice *invoice.Invoice
	Totals  invoice.Totals
}

// NewInvoicePrinter creates a printer. renderer may be nil, in which case
// only HTML rendering is available.
func NewInvoicePrinter(engine *TemplateEngine, renderer PDFRenderer, opts PrinterOptions) *InvoicePrinter {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if !opts.PaperSize.IsValid() {
		opts.PaperSize = PaperSizeA4
	}
	if opts.MarginMM <= 0 {
		opts.MarginMM = 15
	}
	return &InvoicePrinter{engine: engine, renderer: renderer, opts: opts}
}

// RenderHTML binds inv to the invoice layout
func (p *InvoicePrinter) RenderHTML(inv *invoice.Invoice) (string, error) {
	if inv == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice is nil", nil)
	}
	return p.engine.Render(InvoiceTemplateName, invoiceView{Invoice: inv, Totals: inv.Totals()})
}

// RenderPDF renders inv to a PDF document
func (p *InvoicePrinter) RenderPDF(ctx context.Context, inv *invoice.Invoice) ([]byte, error) {
	if p.renderer == nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF renderer is not configured", errors.ErrUnsupported)
	}
	doc, err := p.RenderHTML(inv)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:      doc,
		Title:     "Invoice " + inv.InvoiceNumber,
		PaperSize: p.opts.PaperSize,
		MarginMM:  p.opts.MarginMM,
		Timeout:   p.opts.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// Close releases the underlying renderer
func (p *InvoicePrinter) Close() error {
	if p.renderer == nil {
		return nil
	}
	return p.renderer.Close()
}
