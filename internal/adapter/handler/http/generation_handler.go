package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/entity"
	domainErrors "github.com/bananaviral/bananaviral-backend/internal/domain/errors"
	"github.com/bananaviral/bananaviral-backend/internal/middleware/auth"
	"github.com/bananaviral/bananaviral-backend/internal/usecase"
)

// GenerationHandler exposes the paid thumbnail render flow
type GenerationHandler struct {
	generations *usecase.GenerationService
	logger      *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generations *usecase.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		generations: generations,
		logger:      logger,
	}
}

type GenerateThumbnailRequest struct {
	Topic      string `json:"topic" validate:"required,max=500"`
	Platform   string `json:"platform" validate:"required,oneof=YouTube TikTok Instagram Facebook"`
	Resolution string `json:"resolution" validate:"required,oneof=1K 2K 4K"`
	Intensity  int    `json:"intensity" validate:"gte=0,lte=100"`
	FaceImage  string `json:"face_image,omitempty"`  // data URL
	StyleImage string `json:"style_image,omitempty"` // data URL
}

type GenerateThumbnailResponse struct {
	Image            string `json:"image"` // data URL
	AspectRatio      string `json:"aspect_ratio"`
	CreditsSpent     int    `json:"credits_spent"`
	RemainingCredits int    `json:"remaining_credits"`
}

// GenerateThumbnail renders one thumbnail for the authenticated user
func (h *GenerationHandler) GenerateThumbnail(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	var req GenerateThumbnailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	thumbReq := &entity.ThumbnailRequest{
		Topic:      req.Topic,
		Platform:   entity.Platform(req.Platform),
		Resolution: entity.Resolution(req.Resolution),
		Intensity:  req.Intensity,
	}

	if req.FaceImage != "" {
		img, err := parseDataURL(req.FaceImage)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid face image: " + err.Error()})
		}
		thumbReq.FaceImage = img
	}
	if req.StyleImage != "" {
		img, err := parseDataURL(req.StyleImage)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid style image: " + err.Error()})
		}
		thumbReq.StyleImage = img
	}

	result, err := h.generations.Generate(c.Request().Context(), user.UserID, thumbReq)
	if err != nil {
		var insufficientErr *domainErrors.InsufficientCreditsError
		switch {
		case errors.As(err, &insufficientErr):
			return c.JSON(http.StatusPaymentRequired, echo.Map{
				"error":   "Not enough credits",
				"needed":  insufficientErr.Requested,
				"balance": insufficientErr.Available,
			})
		case errors.Is(err, domainErrors.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Profile not found"})
		default:
			h.logger.Error("Thumbnail generation failed",
				zap.String("user_id", user.UserID.String()),
				zap.Error(err))
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "Image generation failed"})
		}
	}

	return c.JSON(http.StatusOK, GenerateThumbnailResponse{
		Image:            encodeDataURL(result.MimeType, result.Data),
		AspectRatio:      result.AspectRatio,
		CreditsSpent:     result.CreditsSpent,
		RemainingCredits: result.RemainingCredits,
	})
}

// GetHistory returns the authenticated user's recent renders
func (h *GenerationHandler) GetHistory(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	generations, err := h.generations.History(c.Request().Context(), user.UserID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to fetch generation history",
			zap.String("user_id", user.UserID.String()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch history"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"generations": generations,
		"count":       len(generations),
	})
}

// parseDataURL decodes a "data:<mime>;base64,<payload>" string
func parseDataURL(s string) (*entity.ReferenceImage, error) {
	const prefix = "data:"
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("not a data URL")
	}
	rest := s[len(prefix):]

	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return nil, fmt.Errorf("missing base64 payload")
	}

	mimeType := rest[:sep]
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("unsupported media type %q", mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return &entity.ReferenceImage{MimeType: mimeType, Data: data}, nil
}

func encodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
