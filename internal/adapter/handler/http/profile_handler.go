package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
	"github.com/bananaviral/bananaviral-backend/internal/middleware/auth"
)

// ProfileHandler serves the caller's own entitlement state
type ProfileHandler struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *zap.Logger, profiles repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		profiles: profiles,
	}
}

// GetProfile returns the authenticated user's plan and credit balance.
// Account rows are created lazily here; sign-up itself happens in Supabase.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	profile, err := h.profiles.GetOrCreate(c.Request().Context(), user.UserID, user.Email)
	if err != nil {
		h.logger.Error("Failed to load profile",
			zap.String("user_id", user.UserID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load profile"})
	}

	return c.JSON(http.StatusOK, profile)
}
