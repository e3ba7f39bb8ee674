package invoice

import (
	"strings"

	"github.com/invoicing/backend/internal/domain/shared"
)

// PaymentStatus represents the payment state of an invoice
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusPartial   PaymentStatus = "PARTIAL"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// PaymentStatuses lists every status in display order
var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusPartial,
	PaymentStatusCancelled,
}

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusPartial, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the status may move to target.
// Transitions are unconstrained: any valid status may follow any other.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	return s.IsValid() && target.IsValid()
}

// ParsePaymentStatus converts user input into a PaymentStatus
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", shared.NewDomainError(CodeInvalidPaymentStatus,
			"Payment status must be one of PENDING, COMPLETED, PARTIAL, CANCELLED")
	}
	return status, nil
}
