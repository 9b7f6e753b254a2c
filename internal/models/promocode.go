package models

import "time"

// PromoCode is a discount code issued to an admitted guest for booking the
// inspection stay. Discount is a fraction in [0,1].
type PromoCode struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Discount    float64    `gorm:"not null" json:"discount"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (PromoCode) TableName() string {
	return "promo_codes"
}

// ValidAt reports whether the code can be applied at the given instant.
func (p *PromoCode) ValidAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	return true
}
