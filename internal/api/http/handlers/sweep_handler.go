package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-sla/internal/observability"
	"github.com/spec-kit/maintenance-sla/internal/service"
)

// SweepHandler exposes manual sweep triggering and run reports.
type SweepHandler struct {
	sweep   *service.SweepService
	metrics *observability.Metrics
}

// NewSweepHandler constructs handler.
func NewSweepHandler(sweep *service.SweepService, metrics *observability.Metrics) *SweepHandler {
	return &SweepHandler{sweep: sweep, metrics: metrics}
}

// Run POST /sweep/run.
func (h *SweepHandler) Run(c *fiber.Ctx) error {
	result, err := h.sweep.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Last GET /sweep/last.
func (h *SweepHandler) Last(c *fiber.Ctx) error {
	result, ok := h.sweep.Last()
	response := fiber.Map{
		"totals": h.metrics.SweepSnapshot(),
	}
	if ok {
		response["last"] = result
	}
	return c.JSON(fiber.Map{"data": response})
}
