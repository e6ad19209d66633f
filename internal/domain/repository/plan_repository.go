package repository

import (
	"context"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
)

// PlanRepository exposes the pricing catalog
type PlanRepository interface {
	// GetActive returns active tiers ordered for display.
	GetActive(ctx context.Context) ([]*model.PricingTier, error)

	// GetByVariantID returns the tier sold under the provider's variant id,
	// or ErrTierNotFound.
	GetByVariantID(ctx context.Context, variantID string) (*model.PricingTier, error)

	// Seed inserts the default tiers when the catalog is empty.
	Seed(ctx context.Context, tiers []*model.PricingTier) error
}
