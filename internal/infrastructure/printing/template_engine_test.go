package printing

import (
	"testing"
	"time"

	"github.com/invoicing/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		symbol string
		value  string
		want   string
	}{
		{"$", "0", "$0.00"},
		{"$", "5", "$5.00"},
		{"$", "1234.5", "$1,234.50"},
		{"€", "1234567.891", "€1,234,567.89"},
		{"£", "-999.999", "-£1,000.00"},
		{"", "100", "100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.symbol, decimal.RequireFromString(tt.value)))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05 Mar 2024", formatDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, formatDate(time.Time{}))
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, "Pending", statusLabel(invoice.PaymentStatusPending))
	assert.Equal(t, "Cancelled", statusLabel(invoice.PaymentStatusCancelled))
	assert.Equal(t, "status-partial", statusClass(invoice.PaymentStatusPartial))
	assert.Equal(t, "Acme Corp", titleCase("acme corp"))
}

func TestTemplateEngine_RenderString(t *testing.T) {
	e := NewTemplateEngine()

	out, err := e.RenderString("t", `{{ upper .Name }} owes {{ formatMoney "$" .Amount }}`, map[string]any{
		"Name":   "acme",
		"Amount": decimal.RequireFromString("1500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME owes $1,500.00", out)

	_, err = e.RenderString("t", "", nil)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)

	_, err = e.RenderString("t", "{{ .Broken ", nil)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)
}

func TestTemplateEngine_WithFuncs(t *testing.T) {
	e := NewTemplateEngine(WithFuncs(map[string]any{
		"upper": func(s string) string { return "custom:" + s },
	}))
	out, err := e.RenderString("t", `{{ upper "x" }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom:x", out)
}

func TestTemplateEngine_UnknownTemplate(t *testing.T) {
	_, err := NewTemplateEngine().Render("missing.html", nil)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)
}
