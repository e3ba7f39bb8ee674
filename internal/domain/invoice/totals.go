package invoice

import "github.com/shopspring/decimal"

// Totals holds the read-side amounts of an invoice. They are never stored.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals sums item amounts and applies the percentage discount
func ComputeTotals(items []InvoiceItem, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	return totalsFromSubtotal(subtotal, discount)
}

func totalsFromSubtotal(subtotal, discount decimal.Decimal) Totals {
	discountAmount := subtotal.Mul(discount).Div(hundred)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal.Sub(discountAmount),
	}
}
