// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// UserRole defines the program role of a user.
type UserRole string

const (
	// RoleCandidate indicates a registered user who may apply to the program.
	RoleCandidate UserRole = "candidate"
	// RoleAccepted indicates an admitted secret guest.
	RoleAccepted UserRole = "accepted"
	// RoleAdmin indicates an administrator of the program.
	RoleAdmin UserRole = "admin"
)

// User represents a registered account: a candidate, an admitted secret
// guest, or an administrator.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password       string     `gorm:"not null" json:"-"`
	FirstName      string     `gorm:"size:120" json:"first_name"`
	LastName       string     `gorm:"size:120" json:"last_name"`
	Role           UserRole   `gorm:"type:varchar(20);not null;default:'candidate'" json:"role"`
	Cities         StringList `gorm:"type:text" json:"cities"`
	PartySize      int        `gorm:"not null;default:1" json:"party_size"`
	Rating         int        `gorm:"not null;default:0" json:"rating"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	EmailVerified  bool       `gorm:"not null;default:false" json:"email_verified"`
	PhoneVerified  bool       `gorm:"not null;default:false" json:"phone_verified"`
	BookingsInYear int        `gorm:"not null;default:0" json:"completed_bookings_last_year"`
	GuruLevel      int        `gorm:"not null;default:0" json:"guru_level"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Age returns the user's age in whole years at the given instant, or -1 when
// the date of birth is unknown.
func (u *User) Age(now time.Time) int {
	if u.DateOfBirth == nil {
		return -1
	}
	dob := *u.DateOfBirth
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// TenureYears returns whole years since account creation at the given instant.
func (u *User) TenureYears(now time.Time) int {
	years := now.Year() - u.CreatedAt.Year()
	anniversary := u.CreatedAt.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
