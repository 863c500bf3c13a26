package payments

import (
	"testing"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
)

func TestMapProviderStatus(t *testing.T) {
	cases := []struct {
		provider string
		payment  string
		appt     string
		row      string
	}{
		{"approved", lifecycle.PaymentPaid, lifecycle.StatusConfirmed, lifecycle.PaymentRowApproved},
		{"pending", lifecycle.PaymentPending, "", lifecycle.PaymentRowPending},
		{"in_process", lifecycle.PaymentPending, "", lifecycle.PaymentRowPending},
		{"rejected", lifecycle.PaymentCancelled, lifecycle.StatusCancelled, lifecycle.PaymentRowFailed},
		{"cancelled", lifecycle.PaymentCancelled, lifecycle.StatusCancelled, lifecycle.PaymentRowCancelled},
		{"refunded", lifecycle.PaymentRefunded, "", ""},
		{"charged_back", lifecycle.PaymentRefunded, "", ""},
	}
	for _, c := range cases {
		m, ok := MapProviderStatus(c.provider)
		if !ok {
			t.Fatalf("provider status %q not mapped", c.provider)
		}
		if m.PaymentStatus != c.payment || m.AppointmentStatus != c.appt || m.RowStatus != c.row {
			t.Errorf("mapping %q = %+v, want {%s %s %s}", c.provider, m, c.payment, c.appt, c.row)
		}
	}
}

func TestMapProviderStatus_CaseAndWhitespace(t *testing.T) {
	m, ok := MapProviderStatus("  Approved ")
	if !ok || m.PaymentStatus != lifecycle.PaymentPaid {
		t.Fatalf("expected approved mapping, got %+v (ok=%v)", m, ok)
	}
}

func TestMapProviderStatus_Unknown(t *testing.T) {
	if _, ok := MapProviderStatus("authorized_3ds"); ok {
		t.Fatal("unknown provider status must not map")
	}
}

func TestRowTransitionsAreReplaySafe(t *testing.T) {
	// Replaying an approved event against an approved row changes nothing.
	if canTransitionRow(lifecycle.PaymentRowApproved, lifecycle.PaymentRowApproved) {
		t.Fatal("same-status must not count as a transition")
	}
	// An out-of-order late "pending" must not walk an approved row back.
	if canTransitionRow(lifecycle.PaymentRowApproved, lifecycle.PaymentRowPending) {
		t.Fatal("approved -> pending must be rejected")
	}
	if !canTransitionRow(lifecycle.PaymentRowPending, lifecycle.PaymentRowApproved) {
		t.Fatal("pending -> approved must be allowed")
	}
	if !canTransitionRow(lifecycle.PaymentRowFailed, lifecycle.PaymentRowApproved) {
		t.Fatal("failed -> approved must be allowed (gateway retry)")
	}
	if canTransitionRow(lifecycle.PaymentRowCancelled, lifecycle.PaymentRowApproved) {
		t.Fatal("cancelled is terminal")
	}
}

func TestApprovedReplayIsStable(t *testing.T) {
	// Scenario: appointment confirmed + payment pending receives "approved".
	m, _ := MapProviderStatus("approved")
	if !lifecycle.CanTransitionPayment(lifecycle.PaymentPending, m.PaymentStatus) {
		t.Fatal("pending -> paid must be allowed")
	}
	// After the first application the replay finds paid/confirmed; neither
	// track allows a further move, so the event is a no-op.
	if lifecycle.CanTransitionPayment(lifecycle.PaymentPaid, m.PaymentStatus) {
		t.Fatal("paid -> paid must not transition again")
	}
	if lifecycle.CanTransitionStatus(lifecycle.StatusConfirmed, m.AppointmentStatus) {
		t.Fatal("confirmed -> confirmed must not transition again")
	}
}

func TestCallbackEventValidate(t *testing.T) {
	if err := (CallbackEvent{ProviderPaymentID: "123", ProviderStatus: "approved"}).Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
	if err := (CallbackEvent{ProviderStatus: "approved"}).Validate(); err != ErrMissingPaymentID {
		t.Fatalf("expected ErrMissingPaymentID, got %v", err)
	}
	if err := (CallbackEvent{ProviderPaymentID: "123"}).Validate(); err != ErrMissingStatus {
		t.Fatalf("expected ErrMissingStatus, got %v", err)
	}
}
