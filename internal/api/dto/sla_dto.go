package dto

import (
	"time"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// PauseRequest payload.
type PauseRequest struct {
	ReasonCategory string  `json:"reason_category"`
	Reason         *string `json:"reason"`
	Notes          *string `json:"notes"`
}

// PauseResponse reports the created ledger entry.
type PauseResponse struct {
	PauseRecordID  string             `json:"pause_record_id"`
	TicketID       string             `json:"ticket_id"`
	PausedAt       time.Time          `json:"paused_at"`
	ReasonCategory domain.PauseReason `json:"reason_category"`
}

// ResumeRequest payload.
type ResumeRequest struct {
	Notes *string `json:"notes"`
}

// ResumeResponse reports the minutes credited back to the deadline.
type ResumeResponse struct {
	TicketID      string `json:"ticket_id"`
	PausedMinutes int    `json:"paused_minutes"`
}

// TicketSLAResponse is the on-demand classification of one ticket.
type TicketSLAResponse struct {
	TicketID         string              `json:"ticket_id"`
	Title            string              `json:"title"`
	Status           domain.TicketStatus `json:"status"`
	SLAStatus        domain.SLAStatus    `json:"sla_status"`
	SLAMode          domain.SLAMode      `json:"sla_mode"`
	DueAt            *time.Time          `json:"due_at"`
	RemainingHours   float64             `json:"remaining_hours"`
	Progress         *float64            `json:"progress,omitempty"`
	IsPaused         bool                `json:"is_paused"`
	SLAPausedMinutes int                 `json:"sla_paused_minutes"`
	PauseCount       int                 `json:"pause_count"`
}

// PauseHistoryEntry is one row of the pause ledger.
type PauseHistoryEntry struct {
	ID             string             `json:"id"`
	PausedAt       time.Time          `json:"paused_at"`
	PausedBy       string             `json:"paused_by"`
	ReasonCategory domain.PauseReason `json:"reason_category"`
	Reason         *string            `json:"reason,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
	ResumedAt      *time.Time         `json:"resumed_at,omitempty"`
	ResumedBy      *string            `json:"resumed_by,omitempty"`
}
