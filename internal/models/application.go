package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ApplicationStatus defines the review state of a program application.
type ApplicationStatus string

const (
	// ApplicationStatusDraft indicates an application still being assembled.
	ApplicationStatusDraft ApplicationStatus = "draft"
	// ApplicationStatusInReview indicates an application waiting on a manual decision.
	ApplicationStatusInReview ApplicationStatus = "in_review"
	// ApplicationStatusShortlisted indicates an administrative shortlist override.
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	// ApplicationStatusRejected indicates a declined application.
	ApplicationStatusRejected ApplicationStatus = "rejected"
	// ApplicationStatusAccepted indicates an admitted candidate.
	ApplicationStatusAccepted ApplicationStatus = "accepted"
)

// IsTerminal reports whether the status permits no further candidate edits.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case ApplicationStatusShortlisted, ApplicationStatusRejected, ApplicationStatusAccepted:
		return true
	}
	return false
}

// ApplicationQuestions are the five fixed questionnaire keys, in order.
var ApplicationQuestions = []string{"q4", "q5", "q6", "q7", "q8"}

// AnswerSet maps question keys to one of the categorical answers "a", "b", "c".
// Stored as a JSON text column.
type AnswerSet map[string]string

// Value implements driver.Valuer.
func (a AnswerSet) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (a *AnswerSet) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type %T for AnswerSet", value)
	}
}

// Application represents a candidate's structured submission seeking program
// admission.
type Application struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	UserID          *uint              `gorm:"index" json:"user_id,omitempty"`
	User            *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Email           string             `gorm:"size:255;not null;index" json:"email"`
	Phone           string             `gorm:"size:32;not null" json:"phone"`
	HomeCity        string             `gorm:"size:120" json:"home_city"`
	DesiredCity     string             `gorm:"size:120" json:"desired_city"`
	TravelParty     string             `gorm:"size:1" json:"travel_party"`
	Answers         AnswerSet          `gorm:"type:text" json:"answers"`
	Review          string             `gorm:"type:text" json:"review"`
	Status          ApplicationStatus  `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Score           *int               `json:"score,omitempty"`
	ReviewerComment string             `gorm:"type:text" json:"reviewer_comment,omitempty"`
	Photos          []ApplicationPhoto `gorm:"foreignKey:ApplicationID" json:"photos,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Application) TableName() string {
	return "applications"
}

// Photo attachment bounds enforced by the application lifecycle.
const (
	ApplicationPhotosMin = 2
	ApplicationPhotosMax = 4
)

// ApplicationPhoto is a photo attached to an application while in draft.
type ApplicationPhoto struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`
	Path          string    `gorm:"size:512;not null" json:"path"`
	Mime          string    `gorm:"size:64" json:"mime"`
	Size          int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ApplicationPhoto) TableName() string {
	return "application_photos"
}
