package invoice

// Invoice-specific error codes. Generic ones live in the shared package.
const (
	CodeInvalidCurrency      = "INVALID_CURRENCY"
	CodeInvalidPaymentStatus = "INVALID_PAYMENT_STATUS"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeInvalidRate          = "INVALID_RATE"
	CodeInvalidDiscount      = "INVALID_DISCOUNT"
	CodeNumberAssigned       = "NUMBER_ALREADY_ASSIGNED"
)
