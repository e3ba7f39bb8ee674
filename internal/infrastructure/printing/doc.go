// Package printing renders invoices into printable documents.
//
// An invoice is first bound to an embedded html/template, then converted to
// PDF by a PDFRenderer. ChromedpRenderer drives a local or remote headless
// Chrome over the DevTools protocol.
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	printer := NewInvoicePrinter(NewTemplateEngine(), renderer, PrinterOptions{})
//	pdf, err := printer.RenderPDF(ctx, inv)
package printing
