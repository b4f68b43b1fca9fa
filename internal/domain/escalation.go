package domain

import "time"

// Escalation tier thresholds as percent of the SLA budget elapsed.
const (
	ThresholdWarning  = 75
	ThresholdCritical = 90
	ThresholdBreached = 100
)

// EscalationRule maps one threshold tier to the roles it notifies.
// Read-only configuration; the engine never mutates rules.
type EscalationRule struct {
	ID               string
	ThresholdPercent int
	NotifyRoles      []string
	IsActive         bool
}

// Notification is an enqueued record for the delivery collaborator.
// The engine only writes rows; push/email/in-app dispatch is owned elsewhere.
type Notification struct {
	ID        string
	UserID    string
	TicketID  string
	Title     string
	Message   string
	CreatedAt time.Time
}

// User is the slice of the role directory the engine consumes: identity,
// role membership, and whether the account should still be notified.
type User struct {
	ID       string
	Name     string
	Role     string
	IsActive bool
}
