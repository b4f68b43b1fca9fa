package domain

import "time"

// PauseReason categorizes why SLA accounting was suspended.
type PauseReason string

const (
	PauseReasonWaitingParts        PauseReason = "waiting_parts"
	PauseReasonWaitingApproval     PauseReason = "waiting_approval"
	PauseReasonWaitingVendor       PauseReason = "waiting_vendor"
	PauseReasonCustomerUnavailable PauseReason = "customer_unavailable"
	PauseReasonWeather             PauseReason = "weather"
	PauseReasonOther               PauseReason = "other"
)

// Valid reports whether the reason is a known category.
func (r PauseReason) Valid() bool {
	switch r {
	case PauseReasonWaitingParts, PauseReasonWaitingApproval, PauseReasonWaitingVendor,
		PauseReasonCustomerUnavailable, PauseReasonWeather, PauseReasonOther:
		return true
	}
	return false
}

// PauseRecord is one entry of a ticket's append-only pause history.
// At most one record per ticket has ResumedAt unset (the active pause).
type PauseRecord struct {
	ID             string
	TicketID       string
	PausedAt       time.Time
	PausedBy       string
	ReasonCategory PauseReason
	Reason         *string
	Notes          *string
	ResumedAt      *time.Time
	ResumedBy      *string
	ResumeNotes    *string
}

// Active reports whether the pause has not been resumed yet.
func (p PauseRecord) Active() bool {
	return p.ResumedAt == nil
}
