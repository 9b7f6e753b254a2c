package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus defines the moderation state of an inspection report.
type ReportStatus string

const (
	// ReportStatusDraft indicates a report still being filled in.
	ReportStatusDraft ReportStatus = "draft"
	// ReportStatusOnModeration indicates a submitted report awaiting moderation.
	ReportStatusOnModeration ReportStatus = "on_moderation"
	// ReportStatusApproved indicates a report accepted by moderation.
	ReportStatusApproved ReportStatus = "approved"
	// ReportStatusRejected indicates a report declined by moderation.
	ReportStatusRejected ReportStatus = "rejected"
)

// Report step identifiers. The numbering follows the guest-facing form,
// which has informational screens between the persisted steps.
const (
	ReportStepStay     = "step1"
	ReportStepService  = "step2"
	ReportStepFeedback = "step6"
)

// Photo sections of a report.
const (
	PhotoSectionPhotosMatch = "photos_match"
	PhotoSectionCleanliness = "cleanliness"
	PhotoSectionAmenities   = "amenities"
	PhotoSectionFood        = "food"
)

// PhotoSections lists every valid photo section.
var PhotoSections = []string{
	PhotoSectionPhotosMatch,
	PhotoSectionCleanliness,
	PhotoSectionAmenities,
	PhotoSectionFood,
}

// RequiredPhotoCounts are the per-section minimums enforced at submission.
var RequiredPhotoCounts = map[string]int{
	PhotoSectionPhotosMatch: 5,
	PhotoSectionCleanliness: 5,
}

// Categorical answer domains used by the report steps.
const (
	MatchFull     = "full"
	MatchPartial  = "partial"
	MatchNotMatch = "not_match"

	AmenitiesAllWork        = "all_work"
	AmenitiesSomeNotWorking = "some_not_working"
	AmenitiesExtraNotListed = "extra_not_listed"

	WifiStableFast   = "stable_fast"
	WifiIntermittent = "intermittent"
	WifiVerySlow     = "very_slow"
	WifiAbsent       = "absent"

	WaitInstant    = "instant"
	WaitUpTo10     = "up_to_10"
	WaitFrom10To30 = "from_10_to_30"
	WaitOver30     = "over_30"

	AssortmentRich     = "rich"
	AssortmentStandard = "standard"
	AssortmentModest   = "modest"
)

// ReportStep1 covers the stay itself: photo accuracy, amenities and
// cleanliness sub-ratings.
type ReportStep1 struct {
	PhotosMatch        string `json:"photos_match"`
	PhotosMatchComment string `json:"photos_match_comment,omitempty"`
	AmenitiesState     string `json:"amenities_state"`
	AmenitiesComment   string `json:"amenities_comment,omitempty"`
	RoomCleanliness    int    `json:"room_cleanliness"`
	BathroomSanitation int    `json:"bathroom_sanitation"`
	LinenFreshness     int    `json:"linen_freshness"`
	PublicAreaClean    int    `json:"public_area_cleanliness"`
}

// ReportStep2 covers service and operations.
type ReportStep2 struct {
	Politeness     int    `json:"politeness"`
	ResponseSpeed  int    `json:"response_speed"`
	FoodQuality    int    `json:"food_quality"`
	WifiQuality    string `json:"wifi_quality"`
	WaitTime       string `json:"wait_time"`
	FoodMatch      string `json:"food_match"`
	FoodAssortment string `json:"food_assortment"`
}

// ReportStep6 is the closing free-text feedback with an explicit confirmation.
type ReportStep6 struct {
	Liked      string `json:"liked"`
	ToImprove  string `json:"to_improve"`
	Advantages string `json:"advantages"`
	Confirmed  bool   `json:"confirmed"`
}

// ReportAnswers bundles the persisted step payloads, keyed by step. Stored
// as a JSON text column.
type ReportAnswers struct {
	Step1 *ReportStep1 `json:"step1,omitempty"`
	Step2 *ReportStep2 `json:"step2,omitempty"`
	Step6 *ReportStep6 `json:"step6,omitempty"`
}

// Value implements driver.Valuer.
func (a ReportAnswers) Value() (driver.Value, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (a *ReportAnswers) Scan(value interface{}) error {
	if value == nil {
		*a = ReportAnswers{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type %T for ReportAnswers", value)
	}
}

// Report is the structured write-up a guest files after an inspection stay.
type Report struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	UserID       *uint         `gorm:"index" json:"user_id,omitempty"`
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	HotelID      uint          `gorm:"not null;index" json:"hotel_id"`
	Hotel        *Hotel        `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	CheckoutDate time.Time     `gorm:"not null" json:"checkout_date"`
	Status       ReportStatus  `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Answers      ReportAnswers `gorm:"type:text" json:"answers"`
	OverallScore *float64      `json:"overall_score,omitempty"`
	Photos       []ReportPhoto `gorm:"foreignKey:ReportID" json:"photos,omitempty"`
	SubmittedAt  *time.Time    `json:"submitted_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Report) TableName() string {
	return "reports"
}

// BeforeCreate assigns a UUID primary key.
func (r *Report) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReportPhoto is one uploaded photo grouped under a report section.
type ReportPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  string    `gorm:"size:36;not null;index" json:"report_id"`
	Section   string    `gorm:"size:32;not null;index" json:"section"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	Path      string    `gorm:"size:512;not null" json:"path"`
	Mime      string    `gorm:"size:64" json:"mime"`
	Size      int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ReportPhoto) TableName() string {
	return "report_photos"
}
