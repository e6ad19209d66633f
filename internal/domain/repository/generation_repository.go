package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
)

// GenerationRepository stores completed render records
type GenerationRepository interface {
	Save(ctx context.Context, generation *model.Generation) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Generation, error)
}
