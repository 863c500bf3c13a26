package lifecycle

import (
	"errors"
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRescheduled, true},
		{StatusRescheduled, StatusConfirmed, true},
		{StatusRescheduled, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}
	for _, c := range cases {
		if got := CanTransitionStatus(c.from, c.to); got != c.ok {
			t.Errorf("CanTransitionStatus(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentCancelled, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentPaid, PaymentRefunded, true},
		{PaymentPaid, PaymentPending, false},
		{PaymentRefunded, PaymentPaid, false},
		{PaymentNotRequired, PaymentPaid, false},
		{PaymentPending, PaymentNotRequired, false},
	}
	for _, c := range cases {
		if got := CanTransitionPayment(c.from, c.to); got != c.ok {
			t.Errorf("CanTransitionPayment(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestCheckStatusSameValueIsNoOp(t *testing.T) {
	if err := CheckStatus(StatusCancelled, StatusCancelled); err != nil {
		t.Fatalf("same-status check should pass: %v", err)
	}
}

func TestCheckStatusRejectsUnknown(t *testing.T) {
	err := CheckStatus(StatusPending, "archived")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCheckPaymentRejectsReverse(t *testing.T) {
	err := CheckPayment(PaymentPaid, PaymentPending)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
