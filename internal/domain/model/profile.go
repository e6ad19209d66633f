package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// PlanType represents a subscription tier
type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanStarter PlanType = "starter"
	PlanCreator PlanType = "creator"
	PlanAgency  PlanType = "agency"
)

// Scan implements sql.Scanner interface
func (p *PlanType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*p = PlanType(v)
	case []byte:
		*p = PlanType(v)
	default:
		*p = PlanFree
	}
	return nil
}

// Value implements driver.Valuer interface
func (p PlanType) Value() (driver.Value, error) {
	return string(p), nil
}

// IsPaid reports whether the plan is a paid tier
func (p PlanType) IsPaid() bool {
	return p == PlanStarter || p == PlanCreator || p == PlanAgency
}

// Profile is the per-user record holding the subscription plan and the
// consumable credit balance. Rows are created with (free, 0) at first sign-in;
// the entitlement webhook is the only writer of the plan column.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:320" json:"email"`
	FullName  string    `gorm:"size:200" json:"full_name,omitempty"`
	Plan      PlanType  `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	Credits   int       `gorm:"not null;default:0" json:"credits"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
