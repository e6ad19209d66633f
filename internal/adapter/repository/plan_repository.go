package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainErrors "github.com/bananaviral/bananaviral-backend/internal/domain/errors"
	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

type planRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB, logger *zap.Logger) repository.PlanRepository {
	return &planRepository{
		db:     db,
		logger: logger,
	}
}

// GetActive returns active tiers in display order
func (r *planRepository) GetActive(ctx context.Context) ([]*model.PricingTier, error) {
	var tiers []*model.PricingTier

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&tiers).Error

	if err != nil {
		r.logger.Error("Failed to list pricing tiers", zap.Error(err))
		return nil, fmt.Errorf("failed to list pricing tiers: %w", err)
	}

	return tiers, nil
}

// GetByVariantID returns the tier sold under a provider variant id
func (r *planRepository) GetByVariantID(ctx context.Context, variantID string) (*model.PricingTier, error) {
	var tier model.PricingTier

	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		First(&tier).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrTierNotFound
		}
		r.logger.Error("Failed to get pricing tier",
			zap.String("variant_id", variantID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get pricing tier: %w", err)
	}

	return &tier, nil
}

// Seed inserts default tiers when the catalog is empty
func (r *planRepository) Seed(ctx context.Context, tiers []*model.PricingTier) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PricingTier{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count pricing tiers: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(tiers).Error; err != nil {
		r.logger.Error("Failed to seed pricing tiers", zap.Error(err))
		return fmt.Errorf("failed to seed pricing tiers: %w", err)
	}

	r.logger.Info("Pricing catalog seeded", zap.Int("tiers", len(tiers)))
	return nil
}
