package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
	"github.com/bananaviral/bananaviral-backend/internal/lemonsqueezy"
	"github.com/bananaviral/bananaviral-backend/internal/usecase"
)

// WebhookHandler receives Lemon Squeezy's signed billing events and drives
// the entitlement sync. This endpoint is the one network-facing trust
// boundary with an adversarial sender: nothing is parsed and nothing is
// written until the signature over the raw body checks out.
type WebhookHandler struct {
	logger       *zap.Logger
	secret       string
	entitlements *usecase.EntitlementService
	events       repository.WebhookEventRepository
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *zap.Logger, secret string, entitlements *usecase.EntitlementService, events repository.WebhookEventRepository) *WebhookHandler {
	return &WebhookHandler{
		logger:       logger,
		secret:       secret,
		entitlements: entitlements,
		events:       events,
	}
}

// HandleWebhook processes one delivery. The body is read as raw bytes and
// verified before any JSON decoding; re-serializing a parsed copy would make
// the signature check meaningless.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get(lemonsqueezy.SignatureHeader)
	if !lemonsqueezy.VerifySignature(h.secret, body, sig) {
		// One response for missing, undecodable and wrong signatures; the
		// body never says which.
		h.logger.Warn("Webhook signature verification failed",
			zap.String("remote_ip", c.RealIP()),
			zap.Int("body_bytes", len(body)))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid signature"})
	}

	event, err := lemonsqueezy.ParseEvent(body)
	if err != nil {
		h.logger.Error("Malformed webhook payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Malformed payload"})
	}

	h.logger.Info("Webhook event received",
		zap.String("event", event.Meta.EventName),
		zap.String("user_id", event.UserID()),
		zap.String("variant_id", event.Data.Attributes.VariantID.String()))

	decision, err := h.entitlements.Apply(c.Request().Context(), event)

	h.recordEvent(c, event, body, decision, err)

	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to process event"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetWebhookData exposes the recent audit trail for operational debugging
func (h *WebhookHandler) GetWebhookData(c echo.Context) error {
	events, err := h.events.ListRecent(c.Request().Context(), 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list events"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"events":      events,
		"event_count": len(events),
	})
}

// recordEvent writes the audit row. Best-effort: a failed write is logged and
// never changes the response.
func (h *WebhookHandler) recordEvent(c echo.Context, event *lemonsqueezy.WebhookEvent, body []byte, decision usecase.Decision, applyErr error) {
	if h.events == nil {
		return
	}

	status := model.WebhookStatusSkipped
	switch {
	case applyErr != nil:
		status = model.WebhookStatusFailed
	case decision != usecase.DecisionSkipped:
		status = model.WebhookStatusProcessed
	}

	record := &model.WebhookEvent{
		EventName: event.Meta.EventName,
		Status:    status,
	}
	if event.Data.ID != "" {
		id := event.Data.ID
		record.ProviderEventID = &id
	}
	if uid := event.UserID(); uid != "" {
		record.UserID = &uid
	}

	var payload model.JSONB
	if err := json.Unmarshal(body, &payload); err == nil {
		record.Payload = payload
	}

	if err := h.events.Record(c.Request().Context(), record); err != nil {
		h.logger.Warn("Failed to record webhook audit row",
			zap.String("event", event.Meta.EventName),
			zap.Error(err))
	}
}
