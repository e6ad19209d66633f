package provider

import (
	"context"
	"fmt"

	"github.com/bananaviral/bananaviral-backend/internal/domain/entity"
)

// GenerateRequest is one synchronous render call. Images holds at most two
// reference images (face, style) alongside the prompt.
type GenerateRequest struct {
	Prompt            string
	SystemInstruction string
	Images            []entity.ReferenceImage
	AspectRatio       string
	ImageSize         string
}

// GenerateResponse carries the single image a successful call returns
type GenerateResponse struct {
	MimeType string
	Data     []byte
}

// ImageProvider renders one image per call or fails. Single attempt; retry
// policy belongs to the caller.
type ImageProvider interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// ProviderError represents an error from the image generation provider
type ProviderError struct {
	Code    string
	Message string
	Details string
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
