package sla

import (
	"time"

	"github.com/spec-kit/maintenance-sla/internal/domain"
)

// Fraction thresholds for the status lattice.
const (
	fractionWarning  = 0.75
	fractionCritical = 0.90
	fractionBreached = 1.0
)

// ClassifyInput carries the ticket facts the classifier reads.
type ClassifyInput struct {
	CreatedAt time.Time
	DueAt     *time.Time
	Status    domain.TicketStatus
	// Progress, when set, is the pre-computed working-minutes fraction
	// (elapsed working minutes over total working-minute budget, both
	// already excluding paused time). Nil means calendar accounting.
	Progress *float64
}

// Classify maps a ticket onto the SLA status lattice. A closed business
// status wins over everything, including an already-breached deadline; a
// missing due date means the ticket carries no SLA at all.
func Classify(now time.Time, in ClassifyInput) domain.SLAStatus {
	if in.Status.IsClosed() {
		return domain.SLAStatusCompleted
	}
	if in.DueAt == nil {
		return domain.SLAStatusNone
	}

	var fraction float64
	if in.Progress != nil {
		fraction = *in.Progress
	} else {
		total := in.DueAt.Sub(in.CreatedAt)
		if total <= 0 {
			// A due date at or before creation must read as breached,
			// never as on_track.
			return domain.SLAStatusBreached
		}
		fraction = float64(now.Sub(in.CreatedAt)) / float64(total)
	}
	if fraction < 0 {
		fraction = 0
	}

	switch {
	case fraction >= fractionBreached:
		return domain.SLAStatusBreached
	case fraction >= fractionCritical:
		return domain.SLAStatusCritical
	case fraction >= fractionWarning:
		return domain.SLAStatusWarning
	default:
		return domain.SLAStatusOnTrack
	}
}
