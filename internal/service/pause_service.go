package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-sla/internal/domain"
	"github.com/spec-kit/maintenance-sla/internal/events"
	"github.com/spec-kit/maintenance-sla/internal/repository"
	apperrors "github.com/spec-kit/maintenance-sla/pkg/util"
)

// PauseService is the pause ledger: it records pause/resume events, keeps
// the cumulative paused minutes, and extends the deadline on resume so the
// time available to resolve a ticket is conserved across any number of
// pause/resume cycles.
type PauseService struct {
	tickets    repository.TicketRepository
	pauses     repository.PauseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewPauseService constructs the service.
func NewPauseService(tickets repository.TicketRepository, pauses repository.PauseRepository, dispatcher events.Dispatcher, logger *zap.Logger) *PauseService {
	return &PauseService{
		tickets:    tickets,
		pauses:     pauses,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// PauseInput describes a pause request.
type PauseInput struct {
	ActorID        string
	ReasonCategory domain.PauseReason
	Reason         *string
	Notes          *string
}

// Pause freezes SLA accounting for a ticket. Fails with a distinct reason
// when the ticket is already paused or its business status is closed; the
// flag flip and the ledger insert commit in one transaction, so the
// underlying state is left unchanged on any failure.
func (s *PauseService) Pause(ctx context.Context, ticketID string, input PauseInput) (*domain.PauseRecord, error) {
	if !input.ReasonCategory.Valid() {
		return nil, apperrors.NewValidationError("unknown pause reason category",
			map[string]any{"reason_category": input.ReasonCategory})
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsClosed() {
		return nil, apperrors.NewTicketClosed(ticketID)
	}
	if ticket.IsPaused {
		return nil, apperrors.NewAlreadyPaused(ticketID)
	}

	record := &domain.PauseRecord{
		TicketID:       ticketID,
		PausedAt:       s.now(),
		PausedBy:       input.ActorID,
		ReasonCategory: input.ReasonCategory,
		Reason:         input.Reason,
		Notes:          input.Notes,
	}
	applied, err := s.pauses.PauseTicket(ctx, record)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !applied {
		// Lost a race with another pause or a close since the read above.
		return nil, s.pausePreconditionError(ctx, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketPaused,
		TicketID: ticketID,
		ActorID:  input.ActorID,
		Payload: events.TicketPausedPayload{
			PauseRecordID:  record.ID,
			ReasonCategory: record.ReasonCategory,
			PauseCount:     ticket.PauseCount + 1,
		},
	})
	return record, nil
}

// Resume closes the active pause, accumulates the paused minutes (floor to
// minute granularity) and extends due_at by the same amount, all in one
// transaction. Resuming with no active pause is a reported error, never a
// silent no-op, so a retried request cannot extend the deadline twice.
func (s *PauseService) Resume(ctx context.Context, ticketID, actorID string, resumeNotes *string) (int, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return 0, err
	}

	active, err := s.pauses.GetActive(ctx, ticketID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if active == nil || !ticket.IsPaused {
		return 0, apperrors.NewNoActivePause(ticketID)
	}

	now := s.now()
	pausedMinutes := int(now.Sub(active.PausedAt).Minutes())
	if pausedMinutes < 0 {
		pausedMinutes = 0
	}

	applied, err := s.pauses.ResumeTicket(ctx, ticketID, pausedMinutes, now, actorID, resumeNotes)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if !applied {
		// Another resume won between the read and the transactional write.
		return 0, apperrors.NewNoActivePause(ticketID)
	}

	var newDueAt *time.Time
	if ticket.DueAt != nil {
		extended := ticket.DueAt.Add(time.Duration(pausedMinutes) * time.Minute)
		newDueAt = &extended
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketResumed,
		TicketID: ticketID,
		ActorID:  actorID,
		Payload: events.TicketResumedPayload{
			PausedMinutes: pausedMinutes,
			NewDueAt:      newDueAt,
		},
	})
	return pausedMinutes, nil
}

// History lists the full pause ledger of a ticket, oldest first.
func (s *PauseService) History(ctx context.Context, ticketID string) ([]domain.PauseRecord, error) {
	records, err := s.pauses.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

func (s *PauseService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *PauseService) pausePreconditionError(ctx context.Context, ticketID string) error {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket.Status.IsClosed() {
		return apperrors.NewTicketClosed(ticketID)
	}
	if ticket.IsPaused {
		return apperrors.NewAlreadyPaused(ticketID)
	}
	return apperrors.NewConflict("ticket state changed concurrently", map[string]any{"ticket_id": ticketID})
}

func (s *PauseService) publish(ctx context.Context, event events.Event) {
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
