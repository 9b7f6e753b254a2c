package models

import "time"

// InspectionStatus defines the progress of an inspection stay.
type InspectionStatus string

const (
	// InspectionStatusAwaitingBooking indicates a reserved slot without a booking yet.
	InspectionStatusAwaitingBooking InspectionStatus = "awaiting_booking"
	// InspectionStatusAwaitingReport indicates a booked stay waiting for its report.
	InspectionStatusAwaitingReport InspectionStatus = "awaiting_report"
	// InspectionStatusCompleted indicates a finished inspection with a report attached.
	InspectionStatusCompleted InspectionStatus = "completed"
)

// Inspection binds an admitted guest to a hotel inventory entry. Exactly one
// report may attach per inspection.
type Inspection struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	HotelID        uint             `gorm:"not null;index" json:"hotel_id"`
	Hotel          *Hotel           `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	ProgramHotelID uint             `gorm:"not null;index" json:"program_hotel_id"`
	ProgramHotel   *ProgramHotel    `gorm:"foreignKey:ProgramHotelID" json:"program_hotel,omitempty"`
	GuestID        uint             `gorm:"not null;index" json:"guest_id"`
	Guest          *User            `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	PromoCodeID    *uint            `json:"promo_code_id,omitempty"`
	PromoCode      *PromoCode       `gorm:"foreignKey:PromoCodeID" json:"promo_code,omitempty"`
	BookingRef     string           `gorm:"size:64" json:"booking_ref,omitempty"`
	ReportID       *string          `gorm:"size:36;uniqueIndex" json:"report_id,omitempty"`
	Status         InspectionStatus `gorm:"type:varchar(20);not null;default:'awaiting_booking';index" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Inspection) TableName() string {
	return "inspections"
}
