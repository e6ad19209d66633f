package model

import (
	"time"

	"github.com/google/uuid"
)

// Generation records one completed thumbnail render. The image itself is
// returned to the caller and not stored; the row keeps the inputs and cost
// for the user's history view.
type Generation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Topic        string    `gorm:"not null" json:"topic"`
	Platform     string    `gorm:"not null;size:20" json:"platform"`
	Resolution   string    `gorm:"not null;size:10" json:"resolution"`
	Intensity    int       `gorm:"not null" json:"intensity"`
	AspectRatio  string    `gorm:"not null;size:10" json:"aspect_ratio"`
	CreditsSpent int       `gorm:"not null" json:"credits_spent"`
	CreatedAt    time.Time `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Generation) TableName() string {
	return "generations"
}
