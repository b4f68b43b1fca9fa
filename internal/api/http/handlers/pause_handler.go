package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-sla/internal/api/dto"
	"github.com/spec-kit/maintenance-sla/internal/auth"
	"github.com/spec-kit/maintenance-sla/internal/domain"
	"github.com/spec-kit/maintenance-sla/internal/service"
	apperrors "github.com/spec-kit/maintenance-sla/pkg/util"
)

// PauseHandler exposes the pause ledger operations.
type PauseHandler struct {
	pauses *service.PauseService
}

// NewPauseHandler constructs handler.
func NewPauseHandler(pauses *service.PauseService) *PauseHandler {
	return &PauseHandler{pauses: pauses}
}

// Pause POST /tickets/:id/pause.
func (h *PauseHandler) Pause(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PauseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReasonCategory == "" {
		return apperrors.NewValidationError("reason_category required", nil)
	}

	record, err := h.pauses.Pause(c.Context(), c.Params("id"), service.PauseInput{
		ActorID:        principal.User.ID,
		ReasonCategory: domain.PauseReason(req.ReasonCategory),
		Reason:         req.Reason,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.PauseResponse{
		PauseRecordID:  record.ID,
		TicketID:       record.TicketID,
		PausedAt:       record.PausedAt,
		ReasonCategory: record.ReasonCategory,
	}})
}

// Resume POST /tickets/:id/resume.
func (h *PauseHandler) Resume(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticketID := c.Params("id")
	pausedMinutes, err := h.pauses.Resume(c.Context(), ticketID, principal.User.ID, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ResumeResponse{
		TicketID:      ticketID,
		PausedMinutes: pausedMinutes,
	}})
}

// History GET /tickets/:id/pauses.
func (h *PauseHandler) History(c *fiber.Ctx) error {
	records, err := h.pauses.History(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.PauseHistoryEntry, 0, len(records))
	for _, record := range records {
		items = append(items, dto.PauseHistoryEntry{
			ID:             record.ID,
			PausedAt:       record.PausedAt,
			PausedBy:       record.PausedBy,
			ReasonCategory: record.ReasonCategory,
			Reason:         record.Reason,
			Notes:          record.Notes,
			ResumedAt:      record.ResumedAt,
			ResumedBy:      record.ResumedBy,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
