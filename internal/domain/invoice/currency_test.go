package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedCurrencies(t *testing.T) {
	list := SupportedCurrencies()
	require.Len(t, list, 20)
	assert.Equal(t, "USD", list[0].Code)
	assert.Equal(t, "QAR", list[len(list)-1].Code)
	for _, c := range list {
		assert.NotEmpty(t, c.Symbol, c.Code)
		assert.NotEmpty(t, c.Name, c.Code)
	}
}

func TestLookupCurrency(t *testing.T) {
	c, ok := LookupCurrency("eur")
	require.True(t, ok)
	assert.Equal(t, Currency{Code: "EUR", Symbol: "€", Name: "Euro"}, c)

	_, ok = LookupCurrency("BTC")
	assert.False(t, ok)
	assert.False(t, IsSupportedCurrency("XYZ"))
	assert.True(t, IsSupportedCurrency("PKR"))
}

func TestResolveCurrency(t *testing.T) {
	tests := []struct {
		name                string
		code, symbol, label string
		want                Currency
		wantErr             bool
	}{
		{name: "defaults to USD", want: Currency{Code: "USD", Symbol: "$", Name: "US Dollar"}},
		{name: "code only fills display data", code: "GBP", want: Currency{Code: "GBP", Symbol: "£", Name: "British Pound"}},
		{name: "caller symbol and name are kept", code: "CAD", symbol: "CA$", label: "Loonie", want: Currency{Code: "CAD", Symbol: "CA$", Name: "Loonie"}},
		{name: "symbol without code uses USD", symbol: "US$", want: Currency{Code: "USD", Symbol: "US$", Name: "US Dollar"}},
		{name: "unknown code rejected", code: "DOGE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCurrency(tt.code, tt.symbol, tt.label)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "DOGE")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
