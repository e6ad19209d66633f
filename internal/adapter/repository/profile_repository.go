package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainErrors "github.com/bananaviral/bananaviral-backend/internal/domain/errors"
	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

type profileRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB, logger *zap.Logger) repository.ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a profile by user id
func (r *profileRepository) GetByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile

	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProfileNotFound
		}
		r.logger.Error("Failed to get profile",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// GetOrCreate retrieves a profile, inserting a free one on first use
func (r *profileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, email string) (*model.Profile, error) {
	profile := &model.Profile{
		ID:      userID,
		Email:   email,
		Plan:    model.PlanFree,
		Credits: 0,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profile).Error

	if err != nil {
		r.logger.Error("Failed to create profile",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// Re-read so an existing row wins over the zero-value insert attempt.
	return r.GetByID(ctx, userID)
}

// UpdateEntitlement overwrites plan and credits together. A single UPDATE
// keeps the two columns consistent; there is no window where one is written
// without the other.
func (r *profileRepository) UpdateEntitlement(ctx context.Context, userID uuid.UUID, plan model.PlanType, credits int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"plan":    plan,
			"credits": credits,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update entitlement",
			zap.String("user_id", userID.String()),
			zap.String("plan", string(plan)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update entitlement: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domainErrors.ErrProfileNotFound
	}

	return nil
}

// Downgrade resets the plan to free without touching the credit balance
func (r *profileRepository) Downgrade(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", userID).
		Update("plan", model.PlanFree)

	if result.Error != nil {
		r.logger.Error("Failed to downgrade profile",
			zap.String("user_id", userID.String()),
			zap.Error(result.Error))
		return fmt.Errorf("failed to downgrade profile: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domainErrors.ErrProfileNotFound
	}

	return nil
}

// DeductCredits subtracts amount inside a transaction, refusing to go
// negative under concurrent spends.
func (r *profileRepository) DeductCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	var remaining int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile model.Profile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&profile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrProfileNotFound
			}
			return fmt.Errorf("failed to lock profile: %w", err)
		}

		if profile.Credits < amount {
			return domainErrors.NewInsufficientCreditsError(amount, profile.Credits)
		}

		remaining = profile.Credits - amount
		err = tx.Model(&model.Profile{}).
			Where("id = ?", userID).
			Update("credits", remaining).Error
		if err != nil {
			return fmt.Errorf("failed to deduct credits: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return remaining, nil
}
