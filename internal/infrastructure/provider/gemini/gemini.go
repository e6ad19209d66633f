// Package gemini calls the Generative Language API to render images. One
// request in, one image out; retries belong to the provider's own delivery
// policy upstream and to nobody here.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/config"
	"github.com/bananaviral/bananaviral-backend/internal/domain/provider"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-3-pro-image-preview"
	defaultTimeout = 120 * time.Second
)

// Provider implements provider.ImageProvider against the REST endpoint
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewProvider creates a new Gemini image provider
func NewProvider(cfg *config.GeminiConfig, logger *zap.Logger) *Provider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Provider{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// request/response shapes for models.generateContent

type generateContentRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ImageConfig imageConfig `json:"imageConfig"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate renders one image
func (p *Provider) Generate(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	parts := []part{{Text: req.Prompt}}
	for _, img := range req.Images {
		parts = append(parts, part{
			InlineData: &inlineData{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	body := generateContentRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ImageConfig: imageConfig{
				AspectRatio: req.AspectRatio,
				ImageSize:   req.ImageSize,
			},
		},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Error("Gemini request failed", zap.Error(err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Generative Language API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("Gemini returned non-OK status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)),
			zap.Duration("elapsed", time.Since(start)))

		var errResp struct {
			Error struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			} `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)

		return nil, &provider.ProviderError{
			Code:    errResp.Error.Status,
			Message: errResp.Error.Message,
			Details: fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	var result generateContentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}

	for _, candidate := range result.Candidates {
		for _, pt := range candidate.Content.Parts {
			if pt.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(pt.InlineData.Data)
			if err != nil {
				return nil, &provider.ProviderError{
					Code:    "PARSE_ERROR",
					Message: "Image payload is not valid base64",
					Details: err.Error(),
				}
			}

			p.logger.Info("Image generated",
				zap.String("model", p.model),
				zap.String("aspect_ratio", req.AspectRatio),
				zap.Int("image_bytes", len(data)),
				zap.Duration("elapsed", time.Since(start)))

			mimeType := pt.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return &provider.GenerateResponse{MimeType: mimeType, Data: data}, nil
		}
	}

	return nil, &provider.ProviderError{
		Code:    "NO_IMAGE",
		Message: "No image data received from the model",
	}
}
