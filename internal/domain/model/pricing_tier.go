package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PricingTier represents a purchasable plan as shown on the pricing page.
// VariantID is Lemon Squeezy's identifier for the product variant and is the
// key the webhook maps back to an internal plan.
type PricingTier struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"not null;size:100" json:"name"`
	Plan         PlanType        `gorm:"type:varchar(20);not null" json:"plan"`
	VariantID    string          `gorm:"column:variant_id;unique;not null;size:100" json:"variant_id"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"monthly_price"`
	Credits      int             `gorm:"not null" json:"credits"`
	Features     Features        `gorm:"type:jsonb;default:'{}'" json:"features"`
	CheckoutURL  string          `gorm:"size:500" json:"checkout_url"`
	SortOrder    int             `gorm:"default:0" json:"sort_order"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"default:now()" json:"updated_at"`
}

// Features represents tier features as JSONB
type Features map[string]interface{}

// Value implements driver.Valuer interface
func (f Features) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner interface
func (f *Features) Scan(src interface{}) error {
	if src == nil {
		*f = make(Features)
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		*f = make(Features)
		return nil
	}
}

// TableName specifies the table name for GORM
func (PricingTier) TableName() string {
	return "pricing_tiers"
}
