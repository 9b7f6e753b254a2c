package models

import "time"

// ProgramHotel is an inventory entry: a hotel's offered inspection window
// with a finite slot pool. slots_available is only ever decremented by
// reservations; increments happen through administrative correction.
type ProgramHotel struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	HotelID        uint      `gorm:"not null;index" json:"hotel_id"`
	Hotel          *Hotel    `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	CheckInDate    time.Time `gorm:"not null" json:"check_in_date"`
	CheckOutDate   time.Time `gorm:"not null" json:"check_out_date"`
	SlotsTotal     int       `gorm:"not null" json:"slots_total"`
	SlotsAvailable int       `gorm:"not null" json:"slots_available"`
	IsPublished    bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ProgramHotel) TableName() string {
	return "program_hotels"
}

// AvailableDate is one date window of a hotel with its current slot count,
// as surfaced by the inventory matcher.
type AvailableDate struct {
	CheckInDate    time.Time `json:"check_in_date"`
	CheckOutDate   time.Time `json:"check_out_date"`
	SlotsAvailable int       `json:"slots_available"`
}

// HotelAvailability groups a matched hotel with all its open date windows.
type HotelAvailability struct {
	Hotel          Hotel           `json:"hotel"`
	AvailableDates []AvailableDate `json:"available_dates"`
}
