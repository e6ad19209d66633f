package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
)

// ProfileRepository is the privileged mutator of the per-user plan and
// credit columns.
type ProfileRepository interface {
	// GetByID returns the profile for the user, or ErrProfileNotFound.
	GetByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)

	// GetOrCreate returns the profile, creating a (free, 0) row on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID, email string) (*model.Profile, error)

	// UpdateEntitlement overwrites plan and credits in a single write. Both
	// columns change together or not at all.
	UpdateEntitlement(ctx context.Context, userID uuid.UUID, plan model.PlanType, credits int) error

	// Downgrade sets the plan back to free, leaving credits untouched.
	Downgrade(ctx context.Context, userID uuid.UUID) error

	// DeductCredits subtracts amount from the balance, failing with
	// InsufficientCreditsError rather than going negative.
	DeductCredits(ctx context.Context, userID uuid.UUID, amount int) (remaining int, err error)
}
