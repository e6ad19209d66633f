package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/bananaviral/bananaviral-backend/internal/domain/errors"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
	"github.com/bananaviral/bananaviral-backend/internal/lemonsqueezy"
	"github.com/bananaviral/bananaviral-backend/internal/middleware/auth"
)

// CheckoutHandler hands the browser off to the hosted payment page. The user
// id travels inside the checkout's custom data so the eventual webhook can be
// attributed to the buyer.
type CheckoutHandler struct {
	logger *zap.Logger
	plans  repository.PlanRepository
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(logger *zap.Logger, plans repository.PlanRepository) *CheckoutHandler {
	return &CheckoutHandler{
		logger: logger,
		plans:  plans,
	}
}

type CreateCheckoutRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
}

type CreateCheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckout returns the hosted-checkout URL for a pricing tier
func (h *CheckoutHandler) CreateCheckout(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	var req CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	tier, err := h.plans.GetByVariantID(c.Request().Context(), req.VariantID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrTierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Unknown plan"})
		}
		h.logger.Error("Failed to look up pricing tier",
			zap.String("variant_id", req.VariantID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create checkout"})
	}

	url := lemonsqueezy.CheckoutURL(tier.CheckoutURL, user.UserID.String(), user.Email)

	h.logger.Info("Checkout created",
		zap.String("user_id", user.UserID.String()),
		zap.String("plan", string(tier.Plan)),
		zap.String("variant_id", tier.VariantID))

	return c.JSON(http.StatusCreated, CreateCheckoutResponse{
		CheckoutURL: url,
	})
}
