package models

import "time"

// Hotel represents a partner hotel that can be offered for inspection stays.
type Hotel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	City        string    `gorm:"size:120;not null;index" json:"city"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	Capacity    int       `gorm:"not null;default:1" json:"capacity"`
	Cost        int       `gorm:"not null;default:0" json:"cost"`
	Rating      int       `gorm:"not null;default:0" json:"rating"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Hotel) TableName() string {
	return "hotels"
}

// HotelRatingMax is the upper bound of the hotel rating scale.
const HotelRatingMax = 5
