package domain

import "time"

// TicketStatus enumerates the business workflow states relevant to the SLA engine.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "OPEN"
	TicketStatusAssigned  TicketStatus = "ASSIGNED"
	TicketStatusWorking   TicketStatus = "WORKING"
	TicketStatusDone      TicketStatus = "DONE"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// IsClosed reports whether the workflow state terminates SLA tracking.
func (s TicketStatus) IsClosed() bool {
	return s == TicketStatusDone || s == TicketStatusCancelled
}

// SLAMode selects how elapsed time is accounted against the SLA budget.
type SLAMode string

const (
	// SLAModeCalendar counts continuous wall-clock time.
	SLAModeCalendar SLAMode = "calendar"
	// SLAModeWorkingHours counts only minutes inside the branch working calendar.
	SLAModeWorkingHours SLAMode = "working_hours"
)

// SLAStatus is the derived urgency classification for a ticket.
type SLAStatus string

const (
	SLAStatusNone      SLAStatus = "no_sla"
	SLAStatusOnTrack   SLAStatus = "on_track"
	SLAStatusWarning   SLAStatus = "warning"
	SLAStatusCritical  SLAStatus = "critical"
	SLAStatusBreached  SLAStatus = "breached"
	SLAStatusCompleted SLAStatus = "completed"
)

// Rank orders escalating statuses: on_track < warning < critical < breached.
// no_sla and completed sit outside the escalation order and rank as zero.
func (s SLAStatus) Rank() int {
	switch s {
	case SLAStatusWarning:
		return 1
	case SLAStatusCritical:
		return 2
	case SLAStatusBreached:
		return 3
	default:
		return 0
	}
}

// Escalatable reports whether the status belongs to an escalation tier.
func (s SLAStatus) Escalatable() bool {
	return s == SLAStatusWarning || s == SLAStatusCritical || s == SLAStatusBreached
}

// Ticket is the SLA-relevant subset of a maintenance ticket. The wider
// ticket aggregate (description, vendor, approvals) is owned by the
// surrounding back office; the engine reads timestamps and mode and writes
// sla_status plus the pause fields.
type Ticket struct {
	ID               string
	Title            string
	BranchID         string
	AssigneeID       *string
	Status           TicketStatus
	SLAStatus        SLAStatus
	SLAMode          SLAMode
	SLAHours         int
	CreatedAt        time.Time
	DueAt            *time.Time
	IsPaused         bool
	SLAPausedAt      *time.Time
	SLAPausedMinutes int
	PauseCount       int
}
