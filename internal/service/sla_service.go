package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/domain"
	"github.com/spec-kit/maintenance-sla/internal/sla"
)

// TicketEvaluation is one on-demand classification of a ticket.
type TicketEvaluation struct {
	Status         domain.SLAStatus
	DueAt          *time.Time
	RemainingHours float64
	// Progress is the working-minutes fraction for working-hours tickets,
	// nil for calendar accounting.
	Progress *float64
	// BoundExceeded reports that a working-hours walk hit its day bound and
	// the evaluation used the last pointer reached.
	BoundExceeded bool
}

// SLAService computes a ticket's current classification from live calendar
// data. It backs both the periodic sweep and the read-time endpoint, so the
// two paths can never disagree on semantics.
type SLAService struct {
	calculator *sla.Calculator
	logger     *zap.Logger
	now        func() time.Time
}

// NewSLAService constructs the evaluator.
func NewSLAService(calculator *sla.Calculator, logger *zap.Logger) *SLAService {
	return &SLAService{calculator: calculator, logger: logger, now: time.Now}
}

// Evaluate classifies a ticket as of now.
func (s *SLAService) Evaluate(ctx context.Context, ticket *domain.Ticket) TicketEvaluation {
	now := s.now()
	eval := TicketEvaluation{DueAt: ticket.DueAt}

	input := sla.ClassifyInput{
		CreatedAt: ticket.CreatedAt,
		DueAt:     ticket.DueAt,
		Status:    ticket.Status,
	}

	if ticket.SLAMode == domain.SLAModeWorkingHours && ticket.DueAt != nil && !ticket.Status.IsClosed() {
		progress, bounded := s.workingProgress(ctx, ticket, now)
		input.Progress = &progress
		eval.Progress = &progress
		eval.BoundExceeded = bounded
	}

	eval.Status = sla.Classify(now, input)
	if ticket.DueAt != nil {
		if remaining := ticket.DueAt.Sub(now).Hours(); remaining > 0 {
			eval.RemainingHours = remaining
		}
	}
	return eval
}

// workingProgress counts elapsed and total working minutes via two forward
// walks over the branch calendar. Both already exclude paused time: every
// resume extends due_at by the paused minutes, so the total grows in step.
// The walks are recomputed on every read rather than cached, which keeps
// holidays added between creation and due time retroactively effective.
func (s *SLAService) workingProgress(ctx context.Context, ticket *domain.Ticket, now time.Time) (float64, bool) {
	elapsed, elapsedBounded := s.calculator.WorkingMinutesBetween(ctx, ticket.BranchID, ticket.CreatedAt, now)
	total, totalBounded := s.calculator.WorkingMinutesBetween(ctx, ticket.BranchID, ticket.CreatedAt, *ticket.DueAt)
	bounded := elapsedBounded || totalBounded
	if bounded {
		s.logger.Warn("working-hours walk hit day bound",
			zap.String("ticket_id", ticket.ID),
			zap.String("branch_id", ticket.BranchID))
	}
	if total <= 0 {
		// Zero available working time up to the due date reads as fully
		// elapsed, never as on_track.
		return 1, bounded
	}
	return float64(elapsed) / float64(total), bounded
}
