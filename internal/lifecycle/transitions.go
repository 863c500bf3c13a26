package lifecycle

import (
	"errors"
	"fmt"
)

// Appointment status values.
const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusCancelled   = "cancelled"
	StatusCompleted   = "completed"
	StatusRescheduled = "rescheduled"
)

// Appointment payment_status values. These track payment state independently
// of the appointment status: completing an appointment does not mark it paid.
const (
	PaymentPending     = "pending"
	PaymentPaid        = "paid"
	PaymentRefunded    = "refunded"
	PaymentCancelled   = "cancelled"
	PaymentNotRequired = "not_required"
)

// Payment row status values (the Payment entity, not the appointment field).
const (
	PaymentRowApproved  = "approved"
	PaymentRowPending   = "pending"
	PaymentRowFailed    = "failed"
	PaymentRowCancelled = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var statusTransitions = map[string][]string{
	StatusPending:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusRescheduled: {StatusConfirmed},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

var paymentTransitions = map[string][]string{
	PaymentPending:     {PaymentPaid, PaymentCancelled},
	PaymentPaid:        {PaymentRefunded},
	PaymentRefunded:    {},
	PaymentCancelled:   {},
	PaymentNotRequired: {},
}

func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

func ValidPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}

func CanTransitionStatus(from, to string) bool {
	return contains(statusTransitions[from], to)
}

func CanTransitionPayment(from, to string) bool {
	return contains(paymentTransitions[from], to)
}

// CheckStatus validates a status change. Setting the same value again is a
// no-op, not an error, so idempotent callers can replay safely.
func CheckStatus(from, to string) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}
	if !CanTransitionStatus(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func CheckPayment(from, to string) error {
	if !ValidPaymentStatus(to) {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}
	if !CanTransitionPayment(from, to) {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
