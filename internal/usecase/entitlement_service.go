package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bananaviral/bananaviral-backend/internal/domain/entity"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
	"github.com/bananaviral/bananaviral-backend/internal/lemonsqueezy"
)

// Decision is the outcome of applying one webhook event
type Decision string

const (
	DecisionUpgraded   Decision = "upgraded"
	DecisionDowngraded Decision = "downgraded"
	DecisionSkipped    Decision = "skipped"
)

// VariantMapping binds the provider's variant ids to the tiers they sell.
// Variants outside the mapping grant the agency tier; see Apply.
type VariantMapping struct {
	StarterVariantID string
	CreatorVariantID string
}

// EntitlementService translates verified payment events into profile plan and
// credit updates. It is the only writer of the plan column.
type EntitlementService struct {
	profiles repository.ProfileRepository
	mapping  VariantMapping
	logger   *zap.Logger
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(profiles repository.ProfileRepository, mapping VariantMapping, logger *zap.Logger) *EntitlementService {
	return &EntitlementService{
		profiles: profiles,
		mapping:  mapping,
		logger:   logger,
	}
}

// Apply synchronizes the profile named by the event. Events without a user id
// and events this service does not recognize are acknowledged without any
// write. Re-applying the same event lands on the same state: creation events
// overwrite both columns with the tier's fixed allotment, cancellation events
// only reset the plan.
func (s *EntitlementService) Apply(ctx context.Context, event *lemonsqueezy.WebhookEvent) (Decision, error) {
	userID := event.UserID()
	if userID == "" {
		// Test and sandbox deliveries carry no custom data.
		s.logger.Info("Webhook event without user id, ignoring",
			zap.String("event", event.Meta.EventName))
		return DecisionSkipped, nil
	}

	// Checkout embeds the Supabase account id, which is a UUID. Anything
	// else cannot address a profile row.
	uid, err := uuid.Parse(userID)
	if err != nil {
		s.logger.Error("Webhook event carries malformed user id",
			zap.String("event", event.Meta.EventName),
			zap.String("user_id", userID))
		return DecisionSkipped, fmt.Errorf("invalid user id in event metadata: %w", err)
	}

	switch {
	case event.IsCreation():
		ent := s.entitlementForVariant(event.Data.Attributes.VariantID.String())

		if err := s.profiles.UpdateEntitlement(ctx, uid, ent.Plan, ent.Credits); err != nil {
			s.logger.Error("Failed to apply entitlement",
				zap.String("user_id", userID),
				zap.String("plan", string(ent.Plan)),
				zap.Error(err))
			return DecisionSkipped, err
		}

		s.logger.Info("Entitlement applied",
			zap.String("user_id", userID),
			zap.String("plan", string(ent.Plan)),
			zap.Int("credits", ent.Credits))
		return DecisionUpgraded, nil

	case event.IsCancellation():
		if err := s.profiles.Downgrade(ctx, uid); err != nil {
			s.logger.Error("Failed to downgrade profile",
				zap.String("user_id", userID),
				zap.Error(err))
			return DecisionSkipped, err
		}

		s.logger.Info("Profile downgraded to free",
			zap.String("user_id", userID),
			zap.String("event", event.Meta.EventName))
		return DecisionDowngraded, nil

	default:
		s.logger.Info("Unhandled webhook event, ignoring",
			zap.String("event", event.Meta.EventName),
			zap.String("user_id", userID))
		return DecisionSkipped, nil
	}
}

// entitlementForVariant maps a provider variant id to the entitlement it
// grants. Unknown variants fall open to the agency tier so a paying customer
// is never locked out by a catalog mismatch; the warning makes the mismatch
// visible to operators.
func (s *EntitlementService) entitlementForVariant(variantID string) entity.Entitlement {
	switch variantID {
	case s.mapping.StarterVariantID:
		return entity.EntitlementStarter
	case s.mapping.CreatorVariantID:
		return entity.EntitlementCreator
	default:
		s.logger.Warn("Unknown variant id, granting agency tier",
			zap.String("variant_id", variantID))
		return entity.EntitlementAgency
	}
}
