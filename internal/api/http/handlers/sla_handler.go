package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-sla/internal/api/dto"
	"github.com/spec-kit/maintenance-sla/internal/repository"
	"github.com/spec-kit/maintenance-sla/internal/service"
	apperrors "github.com/spec-kit/maintenance-sla/pkg/util"
)

// SLAHandler serves the read-time SLA view of a ticket. The sweep keeps the
// cached sla_status current; this endpoint recomputes on demand so a reader
// never waits for the next tick.
type SLAHandler struct {
	tickets   repository.TicketRepository
	evaluator *service.SLAService
}

// NewSLAHandler constructs handler.
func NewSLAHandler(tickets repository.TicketRepository, evaluator *service.SLAService) *SLAHandler {
	return &SLAHandler{tickets: tickets, evaluator: evaluator}
}

// GetTicketSLA GET /tickets/:id/sla.
func (h *SLAHandler) GetTicketSLA(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	ticket, err := h.tickets.GetByID(c.Context(), ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return err
	}

	eval := h.evaluator.Evaluate(c.Context(), ticket)
	return c.JSON(fiber.Map{"data": dto.TicketSLAResponse{
		TicketID:         ticket.ID,
		Title:            ticket.Title,
		Status:           ticket.Status,
		SLAStatus:        eval.Status,
		SLAMode:          ticket.SLAMode,
		DueAt:            ticket.DueAt,
		RemainingHours:   eval.RemainingHours,
		Progress:         eval.Progress,
		IsPaused:         ticket.IsPaused,
		SLAPausedMinutes: ticket.SLAPausedMinutes,
		PauseCount:       ticket.PauseCount,
	}})
}
