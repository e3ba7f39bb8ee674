package invoice

import (
	"strings"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Currency is an allow-listed currency with its display data
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// DefaultCurrencyCode is used when a request carries no currency
const DefaultCurrencyCode = "USD"

var currencyCodes = []string{
	"USD", "EUR", "JPY", "GBP", "AUD", "CAD", "CHF", "CNY", "HKD", "NZD",
	"SEK", "KRW", "SGD", "NOK", "MXN", "INR", "PKR", "AED", "SAR", "QAR",
}

var currencyTable = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	"HKD": {Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar"},
	"NZD": {Code: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar"},
	"SEK": {Code: "SEK", Symbol: "kr", Name: "Swedish Krona"},
	"KRW": {Code: "KRW", Symbol: "₩", Name: "South Korean Won"},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
	"NOK": {Code: "NOK", Symbol: "kr", Name: "Norwegian Krone"},
	"MXN": {Code: "MXN", Symbol: "$", Name: "Mexican Peso"},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"PKR": {Code: "PKR", Symbol: "₨", Name: "Pakistani Rupee"},
	"AED": {Code: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
	"SAR": {Code: "SAR", Symbol: "﷼", Name: "Saudi Riyal"},
	"QAR": {Code: "QAR", Symbol: "﷼", Name: "Qatari Riyal"},
}

// DefaultCurrency returns USD
func DefaultCurrency() Currency {
	return currencyTable[DefaultCurrencyCode]
}

// LookupCurrency returns the allow-listed currency for code
func LookupCurrency(code string) (Currency, bool) {
	c, ok := currencyTable[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// IsSupportedCurrency reports whether code is in the allow-list
func IsSupportedCurrency(code string) bool {
	_, ok := LookupCurrency(code)
	return ok
}

// SupportedCurrencies returns the allow-list in its canonical order
func SupportedCurrencies() []Currency {
	out := make([]Currency, 0, len(currencyCodes))
	for _, code := range currencyCodes {
		out = append(out, currencyTable[code])
	}
	return out
}

// ResolveCurrency builds the currency for a new invoice.
// An empty code falls back to USD. Caller-supplied symbol and name win over
// the lookup table; missing ones are filled from it.
func ResolveCurrency(code, symbol, name string) (Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		if symbol == "" && name == "" {
			return DefaultCurrency(), nil
		}
		code = DefaultCurrencyCode
	}

	known, ok := LookupCurrency(code)
	if !ok {
		return Currency{}, shared.NewDomainError(CodeInvalidCurrency, "Unsupported currency code: "+code)
	}
	if symbol != "" {
		known.Symbol = symbol
	}
	if name != "" {
		known.Name = name
	}
	return known, nil
}
