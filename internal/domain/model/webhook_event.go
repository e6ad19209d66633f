package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// WebhookEventStatus tracks how a received event was resolved
type WebhookEventStatus string

const (
	WebhookStatusProcessed WebhookEventStatus = "processed"
	WebhookStatusSkipped   WebhookEventStatus = "skipped"
	WebhookStatusFailed    WebhookEventStatus = "failed"
)

// Scan implements sql.Scanner interface
func (s *WebhookEventStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = WebhookEventStatus(v)
	case []byte:
		*s = WebhookEventStatus(v)
	default:
		*s = WebhookStatusSkipped
	}
	return nil
}

// Value implements driver.Valuer interface
func (s WebhookEventStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// WebhookEvent is the audit record for a verified Lemon Squeezy delivery.
// Rows exist purely for operational debugging; event handling never reads
// them back. ProviderEventID carries the provider's object id when present so
// redeliveries stay traceable.
type WebhookEvent struct {
	ID              int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderEventID *string            `gorm:"size:100" json:"provider_event_id,omitempty"`
	EventName       string             `gorm:"not null;size:100" json:"event_name"`
	UserID          *string            `gorm:"size:100" json:"user_id,omitempty"`
	Status          WebhookEventStatus `gorm:"type:varchar(20);not null" json:"status"`
	Payload         JSONB              `gorm:"type:jsonb" json:"payload"`
	CreatedAt       time.Time          `gorm:"default:now()" json:"created_at"`
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
