package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

type generationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGenerationRepository creates a new generation repository
func NewGenerationRepository(db *gorm.DB, logger *zap.Logger) repository.GenerationRepository {
	return &generationRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores a completed render record
func (r *generationRepository) Save(ctx context.Context, generation *model.Generation) error {
	err := r.db.WithContext(ctx).Create(generation).Error
	if err != nil {
		r.logger.Error("Failed to save generation",
			zap.String("user_id", generation.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to save generation: %w", err)
	}

	return nil
}

// ListByUser returns the user's renders, newest first
func (r *generationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Generation, error) {
	var generations []*model.Generation

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&generations).Error

	if err != nil {
		r.logger.Error("Failed to list generations",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	return generations, nil
}
