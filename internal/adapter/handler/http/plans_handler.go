package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

// PlansHandler serves the public pricing catalog
type PlansHandler struct {
	logger *zap.Logger
	plans  repository.PlanRepository
}

// NewPlansHandler creates a new plans handler
func NewPlansHandler(logger *zap.Logger, plans repository.PlanRepository) *PlansHandler {
	return &PlansHandler{
		logger: logger,
		plans:  plans,
	}
}

// GetPlans returns all active pricing tiers
func (h *PlansHandler) GetPlans(c echo.Context) error {
	tiers, err := h.plans.GetActive(c.Request().Context())
	if err != nil {
		h.logger.Error("Error fetching pricing tiers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to fetch plans",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"plans": tiers,
	})
}
