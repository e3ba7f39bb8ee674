package invoice

import "github.com/shopspring/decimal"

// Summary is the minimal read model needed to aggregate an invoice
type Summary struct {
	PaymentStatus PaymentStatus
	Discount      decimal.Decimal
	Subtotal      decimal.Decimal
}

// StatusStats aggregates invoices sharing one payment status
type StatusStats struct {
	Count  int64
	Amount decimal.Decimal
}

// Stats is the dashboard view over all invoices
type Stats struct {
	TotalInvoices  int64
	TotalAmount    decimal.Decimal
	ByStatus       map[PaymentStatus]StatusStats
	CompletionRate decimal.Decimal // percent, 1 dp
}

// ComputeStats folds invoice summaries into dashboard statistics.
// Amounts are discounted totals, computed the same way as Totals.
func ComputeStats(summaries []Summary) Stats {
	stats := Stats{
		TotalAmount:    decimal.Zero,
		ByStatus:       make(map[PaymentStatus]StatusStats, len(PaymentStatuses)),
		CompletionRate: decimal.Zero,
	}
	for _, s := range PaymentStatuses {
		stats.ByStatus[s] = StatusStats{Amount: decimal.Zero}
	}

	for _, s := range summaries {
		total := totalsFromSubtotal(s.Subtotal, s.Discount).Total
		stats.TotalInvoices++
		stats.TotalAmount = stats.TotalAmount.Add(total)

		bucket := stats.ByStatus[s.PaymentStatus]
		bucket.Count++
		bucket.Amount = bucket.Amount.Add(total)
		stats.ByStatus[s.PaymentStatus] = bucket
	}

	if stats.TotalInvoices > 0 {
		completed := decimal.NewFromInt(stats.ByStatus[PaymentStatusCompleted].Count)
		stats.CompletionRate = completed.Mul(hundred).
			Div(decimal.NewFromInt(stats.TotalInvoices)).
			Round(1)
	}
	return stats
}
