package events

import (
	"time"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSLAStatusChanged    EventType = "sla_status_changed"
	EventTicketPaused        EventType = "ticket_paused"
	EventTicketResumed       EventType = "ticket_resumed"
	EventEscalationTriggered EventType = "escalation_triggered"
)

// Event represents a domain event emitted by the engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SLAStatusChangedPayload payload.
type SLAStatusChangedPayload struct {
	OldStatus domain.SLAStatus `json:"old_status"`
	NewStatus domain.SLAStatus `json:"new_status"`
	DueAt     *time.Time       `json:"due_at,omitempty"`
}

// TicketPausedPayload payload.
type TicketPausedPayload struct {
	PauseRecordID  string             `json:"pause_record_id"`
	ReasonCategory domain.PauseReason `json:"reason_category"`
	PauseCount     int                `json:"pause_count"`
}

// TicketResumedPayload payload.
type TicketResumedPayload struct {
	PausedMinutes int        `json:"paused_minutes"`
	NewDueAt      *time.Time `json:"new_due_at,omitempty"`
}

// EscalationTriggeredPayload payload.
type EscalationTriggeredPayload struct {
	Status            domain.SLAStatus `json:"status"`
	ThresholdPercent  int              `json:"threshold_percent"`
	RecipientCount    int              `json:"recipient_count"`
	NotificationsSent int              `json:"notifications_sent"`
}
