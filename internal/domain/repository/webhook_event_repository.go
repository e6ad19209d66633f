package repository

import (
	"context"

	"github.com/bananaviral/bananaviral-backend/internal/domain/model"
)

// WebhookEventRepository stores the audit trail of received webhook
// deliveries. Writes here are best-effort; a failed audit write must never
// fail the request that triggered it.
type WebhookEventRepository interface {
	Record(ctx context.Context, event *model.WebhookEvent) error
	ListRecent(ctx context.Context, limit int) ([]*model.WebhookEvent, error)
}
