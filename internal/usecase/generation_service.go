package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/entity"
	"github.com/bananaviral/bananaviral-backend/internal/domain/errors"
	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/domain/provider"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

// creditsPerGeneration is the flat cost of one render
const creditsPerGeneration = 1

var viralElements = []string{
	"Hyper-expressive face in foreground",
	"High contrast saturation",
	"Complimentary color theory (Teal/Orange or Red/Green)",
	"Thick glowing outlines around the subject",
	"3D rendered background elements",
	"Speed lines or motion blur on edges",
	"Depth of field emphasizing the subject",
}

// GenerationService runs the paid render flow: check the balance, call the
// image provider, deduct credits, record the result. A provider failure costs
// nothing.
type GenerationService struct {
	profiles    repository.ProfileRepository
	generations repository.GenerationRepository
	images      provider.ImageProvider
	logger      *zap.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	profiles repository.ProfileRepository,
	generations repository.GenerationRepository,
	images provider.ImageProvider,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		profiles:    profiles,
		generations: generations,
		images:      images,
		logger:      logger,
	}
}

// Generate renders one thumbnail for the user
func (s *GenerationService) Generate(ctx context.Context, userID uuid.UUID, req *entity.ThumbnailRequest) (*entity.ThumbnailResult, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.Credits < creditsPerGeneration {
		return nil, errors.NewInsufficientCreditsError(creditsPerGeneration, profile.Credits)
	}

	genReq := &provider.GenerateRequest{
		Prompt:            buildPrompt(req),
		SystemInstruction: buildSystemInstruction(req),
		AspectRatio:       req.Platform.AspectRatio(),
		ImageSize:         string(req.Resolution),
	}
	if req.FaceImage != nil {
		genReq.Images = append(genReq.Images, *req.FaceImage)
	}
	if req.StyleImage != nil {
		genReq.Images = append(genReq.Images, *req.StyleImage)
	}

	start := time.Now()
	resp, err := s.images.Generate(ctx, genReq)
	if err != nil {
		s.logger.Error("Image generation failed",
			zap.String("user_id", userID.String()),
			zap.String("topic", req.Topic),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	remaining, err := s.profiles.DeductCredits(ctx, userID, creditsPerGeneration)
	if err != nil {
		// The image was rendered but could not be charged. Return it anyway;
		// losing a credit deduction beats charging for nothing.
		s.logger.Error("Failed to deduct credits after generation",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		remaining = profile.Credits
	}

	generation := &model.Generation{
		ID:           uuid.New(),
		UserID:       userID,
		Topic:        req.Topic,
		Platform:     string(req.Platform),
		Resolution:   string(req.Resolution),
		Intensity:    req.Intensity,
		AspectRatio:  req.Platform.AspectRatio(),
		CreditsSpent: creditsPerGeneration,
	}
	if err := s.generations.Save(ctx, generation); err != nil {
		// History is best-effort; the user already has their image.
		s.logger.Warn("Failed to record generation",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.logger.Info("Thumbnail generated",
		zap.String("user_id", userID.String()),
		zap.String("platform", string(req.Platform)),
		zap.String("resolution", string(req.Resolution)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("remaining_credits", remaining))

	return &entity.ThumbnailResult{
		MimeType:         resp.MimeType,
		Data:             resp.Data,
		AspectRatio:      req.Platform.AspectRatio(),
		CreditsSpent:     creditsPerGeneration,
		RemainingCredits: remaining,
	}, nil
}

// History returns the user's recent renders
func (s *GenerationService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Generation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.generations.ListByUser(ctx, userID, limit, offset)
}

func buildSystemInstruction(req *entity.ThumbnailRequest) string {
	style := "Clean, Professional, Intriguing, High-Budget"
	if req.Intensity > 80 {
		style = "EXTREME CHAOS, MAX SATURATION, YELLING FACE"
	}

	return fmt.Sprintf(`You are the world's best thumbnail designer, known for creating viral images with extreme click-through rates.
Your goal is to create a high-CTR image that stops the scroll immediately.

CRITICAL RULES:
1. SUBJECT: If a face image is provided, integrate it seamlessly. If not, generate a hyper-realistic, expressive character (shocked, excited, or intense emotion).
2. LIGHTING: Use professional 3-point lighting with rim lights to separate subject from background.
3. COLORS: Use the "BananaViral" signature style: Vivid, punchy colors. Avoid dull grays or washed-out tones.
4. TEXT: If text is needed, keep it under 3 words, massive font, drop shadow, contrasting color.
5. STYLE: %s.`, style)
}

func buildPrompt(req *entity.ThumbnailRequest) string {
	return fmt.Sprintf(`DESIGN TASK: Create a thumbnail for the video topic: %q.

PLATFORM: %s (%s aspect ratio).

VISUAL REQUIREMENTS:
- %s
- Make the image look like it cost $10,000 to produce.
- Resolution target: %s.
- Ensure any text generated is spelled correctly.

User Intensity Setting: %d%% (0=Safe, 100=Viral Clickbait).`,
		req.Topic,
		req.Platform,
		req.Platform.AspectRatio(),
		strings.Join(viralElements, "\n- "),
		req.Resolution,
		req.Intensity,
	)
}
