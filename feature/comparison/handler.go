package comparison

import (
	"errors"

	"replay-scheduler/core/logger"
	"replay-scheduler/feature/tracking"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service      *Service
	useResultIDs bool
}

// NewHandler creates a new HTTP handler. useResultIDs is the lookup mode
// used when a request does not choose one.
func NewHandler(service *Service, useResultIDs bool) *Handler {
	return &Handler{service: service, useResultIDs: useResultIDs}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Post("/plans/:planId", h.HandleComparePlan)
	group.Post("/cases/:caseId", h.HandleCompareCase)
}

// HandleComparePlan compares every pending case of a plan.
// @Summary Compare Plan
// @Description Compare all pending cases of a replay plan against their recordings.
// @Tags compare
// @Produce json
// @Param planId path string true "Plan ID"
// @Param useResultIds query bool false "Read both sides by stored result ids"
// @Success 200 {object} comparison.Summary "Comparison summary"
// @Failure 404 {object} map[string]string "Plan not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/plans/{planId} [post]
func (h *Handler) HandleComparePlan(c *fiber.Ctx) error {
	planID := c.Params("planId")
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.ComparePlan(c.Context(), planID, c.QueryBool("useResultIds", h.useResultIDs))
	if err != nil {
		if errors.Is(err, tracking.ErrPlanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Plan comparison failed", zap.String("plan_id", planID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(summary)
}

// HandleCompareCase compares a single case.
// @Summary Compare Case
// @Description Compare one replayed case against its recording.
// @Tags compare
// @Produce json
// @Param caseId path string true "Case ID"
// @Param useResultIds query bool false "Read both sides by stored result ids"
// @Success 200 {object} comparison.Summary "Comparison summary"
// @Failure 404 {object} map[string]string "Case not found"
// @Failure 409 {object} map[string]string "Case already compared"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/cases/{caseId} [post]
func (h *Handler) HandleCompareCase(c *fiber.Ctx) error {
	caseID := c.Params("caseId")
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.CompareCase(c.Context(), caseID, c.QueryBool("useResultIds", h.useResultIDs))
	if err != nil {
		if errors.Is(err, tracking.ErrCaseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, ErrCaseAlreadyCompared) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Case comparison failed", zap.String("case_id", caseID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(summary)
}
