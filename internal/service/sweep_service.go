package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/events"
	"github.com/spec-kit/maintenance-sla/internal/observability"
	"github.com/spec-kit/maintenance-sla/internal/repository"
)

// SweepResult summarizes one batch run. The counts exist for observability;
// correctness never depends on them.
type SweepResult struct {
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration"`
	Processed         int           `json:"processed"`
	Skipped           int           `json:"skipped"`
	StatusChanges     int           `json:"status_changes"`
	Escalations       int           `json:"escalations"`
	NotificationsSent int           `json:"notifications_sent"`
	Failures          int           `json:"failures"`
	BoundExceeded     int           `json:"bound_exceeded"`
}

// SweepService re-evaluates every open ticket with a deadline, persists the
// classification when it changed, and triggers escalation. Tickets are
// independent units of work: a per-ticket failure is counted and logged but
// never aborts the rest of the batch, and cancellation takes effect between
// tickets since each update commits on its own.
type SweepService struct {
	tickets     repository.TicketRepository
	evaluator   *SLAService
	escalations *EscalationService
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time

	mu   sync.Mutex
	last *SweepResult
}

// NewSweepService constructs the sweep driver.
func NewSweepService(tickets repository.TicketRepository, evaluator *SLAService, escalations *EscalationService, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *SweepService {
	return &SweepService{
		tickets:     tickets,
		evaluator:   evaluator,
		escalations: escalations,
		dispatcher:  dispatcher,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one sweep over all open tickets with a deadline.
func (s *SweepService) Run(ctx context.Context) (SweepResult, error) {
	result := SweepResult{StartedAt: s.now()}

	tickets, err := s.tickets.ListOpenWithDeadline(ctx)
	if err != nil {
		return result, err
	}

	for i := range tickets {
		if ctx.Err() != nil {
			s.logger.Info("sweep cancelled between tickets",
				zap.Int("processed", result.Processed))
			break
		}
		ticket := tickets[i]

		if ticket.IsPaused {
			// Frozen deadline: no reclassification or escalation while the
			// pause ledger holds the clock.
			result.Skipped++
			continue
		}

		eval := s.evaluator.Evaluate(ctx, &ticket)
		result.Processed++
		if eval.BoundExceeded {
			result.BoundExceeded++
		}
		if eval.Status == ticket.SLAStatus {
			continue
		}

		applied, err := s.tickets.UpdateSLAStatus(ctx, ticket.ID, eval.Status, ticket.SLAStatus)
		if err != nil {
			result.Failures++
			s.logger.Warn("sla status update failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		if !applied {
			// An interactive operation changed the ticket underneath us;
			// the next tick will see the fresh state.
			result.Skipped++
			continue
		}
		result.StatusChanges++

		s.publish(ctx, events.Event{
			Type:     events.EventSLAStatusChanged,
			TicketID: ticket.ID,
			Payload: events.SLAStatusChangedPayload{
				OldStatus: ticket.SLAStatus,
				NewStatus: eval.Status,
				DueAt:     ticket.DueAt,
			},
		})

		outcome, err := s.escalations.Escalate(ctx, &ticket, ticket.SLAStatus, eval.Status)
		if err != nil {
			result.Failures++
			s.logger.Warn("escalation failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		if outcome.Escalated {
			result.Escalations++
			result.NotificationsSent += outcome.NotificationsSent
		}
	}

	result.Duration = s.now().Sub(result.StartedAt)
	s.record(result)
	s.logger.Info("sweep finished",
		zap.Int("processed", result.Processed),
		zap.Int("status_changes", result.StatusChanges),
		zap.Int("escalations", result.Escalations),
		zap.Int("notifications_sent", result.NotificationsSent),
		zap.Int("failures", result.Failures),
		zap.Int("bound_exceeded", result.BoundExceeded),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Last returns the most recent sweep summary, if any sweep has run.
func (s *SweepService) Last() (SweepResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return SweepResult{}, false
	}
	return *s.last, true
}

func (s *SweepService) record(result SweepResult) {
	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordSweep(result.Processed, result.StatusChanges, result.Escalations, result.Failures)
	}
}

func (s *SweepService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
