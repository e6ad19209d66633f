package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
	"github.com/bananaviral/bananaviral-backend/internal/domain/repository"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) repository.WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores the audit row for a verified delivery. Redeliveries of the
// same provider object are kept once per (event, object) pair.
func (r *webhookEventRepository) Record(ctx context.Context, event *model.WebhookEvent) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event).Error

	if err != nil {
		r.logger.Error("Failed to record webhook event",
			zap.String("event_name", event.EventName),
			zap.Error(err))
		return fmt.Errorf("failed to record webhook event: %w", err)
	}

	return nil
}

// ListRecent returns the newest audit rows
func (r *webhookEventRepository) ListRecent(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var events []*model.WebhookEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error

	if err != nil {
		r.logger.Error("Failed to list webhook events", zap.Error(err))
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}

	return events, nil
}
