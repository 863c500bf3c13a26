package model

import "time"

// Appointment is one booked service slot for a professional. StartTime and
// EndTime are wall-clock local timestamps forming the half-open interval
// [start, end). EndTime is derived from the service duration at creation and
// may later diverge through manual staff edits; it is never re-derived.
type Appointment struct {
	ID             string
	ServiceID      string
	ProfessionalID string
	ClientID       string
	StartTime      time.Time
	EndTime        time.Time
	Status         string
	PaymentStatus  string
	Notes          string
	IsManual       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Payment is a money record optionally attached to an appointment. Manual
// payments taken at the counter have no appointment reference. Provider
// fields are set when the payment flows through the external gateway.
type Payment struct {
	ID                string
	AppointmentID     *string
	Amount            string
	Method            string
	Status            string
	PaymentDate       *time.Time
	ProviderPaymentID string
	ProviderReference string
	CreatedAt         time.Time
}
