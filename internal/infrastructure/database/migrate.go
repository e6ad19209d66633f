package database

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bananaviral/bananaviral-backend/internal/adapter/repository"
	"github.com/bananaviral/bananaviral-backend/internal/config"
	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, cfg *config.LemonSqueezyConfig, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&model.Profile{},
		&model.PricingTier{},
		&model.WebhookEvent{},
		&model.Generation{},
	); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	if err := seedPricingTiers(db, cfg, logger); err != nil {
		logger.Error("Failed to seed pricing catalog", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Provider redeliveries map to one audit row per (event, object).
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_webhook_event_per_object ON webhook_events (event_name, provider_event_id) WHERE provider_event_id IS NOT NULL`).Error; err != nil {
		return err
	}

	return nil
}

// seedPricingTiers inserts the default catalog on first boot
func seedPricingTiers(db *gorm.DB, cfg *config.LemonSqueezyConfig, logger *zap.Logger) error {
	plans := repository.NewPlanRepository(db, logger)

	buyURL := func(variantID string) string {
		return cfg.StoreURL + "/checkout/buy/" + variantID
	}

	tiers := []*model.PricingTier{
		{
			Name:         "Starter",
			Plan:         model.PlanStarter,
			VariantID:    cfg.StarterVariantID,
			MonthlyPrice: decimal.NewFromInt(9),
			Credits:      50,
			Features:     model.Features{"resolutions": []string{"1K"}, "platforms": 4},
			CheckoutURL:  buyURL(cfg.StarterVariantID),
			SortOrder:    1,
			IsActive:     true,
		},
		{
			Name:         "Creator",
			Plan:         model.PlanCreator,
			VariantID:    cfg.CreatorVariantID,
			MonthlyPrice: decimal.NewFromInt(19),
			Credits:      100,
			Features:     model.Features{"resolutions": []string{"1K", "2K"}, "platforms": 4},
			CheckoutURL:  buyURL(cfg.CreatorVariantID),
			SortOrder:    2,
			IsActive:     true,
		},
		{
			Name:         "Agency",
			Plan:         model.PlanAgency,
			VariantID:    "agency",
			MonthlyPrice: decimal.NewFromInt(49),
			Credits:      400,
			Features:     model.Features{"resolutions": []string{"1K", "2K", "4K"}, "platforms": 4},
			CheckoutURL:  buyURL("agency"),
			SortOrder:    3,
			IsActive:     true,
		},
	}

	return plans.Seed(context.Background(), tiers)
}
