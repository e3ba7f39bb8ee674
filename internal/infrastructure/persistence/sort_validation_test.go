package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"ascending", "DESC"},
		{"ASC; DELETE FROM invoices", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty falls back", "", "created_at"},
		{"invoice number", "invoice_number", "invoice_number"},
		{"trimmed", "  client_name ", "client_name"},
		{"case sensitive", "CLIENT_NAME", "created_at"},
		{"unlisted column", "client_email", "created_at"},
		{"item column", "rate", "created_at"},
		{"quoted payload", "date'--", "created_at"},
		{"subquery", "id, (SELECT sequence FROM counters)", "created_at"},
		{"statement", "payment_status; DROP TABLE counters", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, InvoiceSortFields, "created_at"))
		})
	}

	assert.Equal(t, "", ValidateSortField("unknown", InvoiceSortFields, ""))
}
