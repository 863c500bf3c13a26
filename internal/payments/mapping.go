package payments

import (
	"strings"

	"github.com/navirastartup/studio-donna-patty-sub000/internal/lifecycle"
)

// Mapping is one row of the fixed provider-vocabulary translation table.
// PaymentStatus targets the appointment's payment_status track,
// AppointmentStatus its status track (empty = leave unchanged), RowStatus
// the Payment entity itself (empty = leave unchanged).
type Mapping struct {
	PaymentStatus     string
	AppointmentStatus string
	RowStatus         string
}

var providerStatusTable = map[string]Mapping{
	"approved": {
		PaymentStatus:     lifecycle.PaymentPaid,
		AppointmentStatus: lifecycle.StatusConfirmed,
		RowStatus:         lifecycle.PaymentRowApproved,
	},
	"pending": {
		PaymentStatus: lifecycle.PaymentPending,
		RowStatus:     lifecycle.PaymentRowPending,
	},
	"in_process": {
		PaymentStatus: lifecycle.PaymentPending,
		RowStatus:     lifecycle.PaymentRowPending,
	},
	"rejected": {
		PaymentStatus:     lifecycle.PaymentCancelled,
		AppointmentStatus: lifecycle.StatusCancelled,
		RowStatus:         lifecycle.PaymentRowFailed,
	},
	"cancelled": {
		PaymentStatus:     lifecycle.PaymentCancelled,
		AppointmentStatus: lifecycle.StatusCancelled,
		RowStatus:         lifecycle.PaymentRowCancelled,
	},
	"refunded": {
		PaymentStatus: lifecycle.PaymentRefunded,
	},
	"charged_back": {
		PaymentStatus: lifecycle.PaymentRefunded,
	},
}

// MapProviderStatus translates a gateway status string. Unknown statuses
// return ok=false and the event is acknowledged without mutation.
func MapProviderStatus(providerStatus string) (Mapping, bool) {
	m, ok := providerStatusTable[strings.ToLower(strings.TrimSpace(providerStatus))]
	return m, ok
}

// Payment-row transitions tolerated from gateway replays. Out-of-order or
// repeated events must never walk a row backwards.
var rowTransitions = map[string][]string{
	lifecycle.PaymentRowPending:   {lifecycle.PaymentRowApproved, lifecycle.PaymentRowFailed, lifecycle.PaymentRowCancelled},
	lifecycle.PaymentRowFailed:    {lifecycle.PaymentRowApproved, lifecycle.PaymentRowCancelled},
	lifecycle.PaymentRowApproved:  {lifecycle.PaymentRowCancelled},
	lifecycle.PaymentRowCancelled: {},
}

func canTransitionRow(from, to string) bool {
	if from == to {
		return false
	}
	for _, s := range rowTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
