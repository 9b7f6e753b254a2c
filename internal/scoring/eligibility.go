package scoring

import (
	"time"

	"secretguest/internal/models"
)

// Eligibility gate constants.
const (
	// MinAge is the minimum candidate age in whole years.
	MinAge = 21
	// MinBookingsLastYear is the minimum number of completed bookings in the
	// last year.
	MinBookingsLastYear = 4
	// ReapplyCooldown is how long an open application blocks a new one.
	ReapplyCooldown = 90 * 24 * time.Hour
)

// Ineligibility reasons returned by EvaluateEligibility.
const (
	ReasonOpenApplication  = "an application is already open or under review"
	ReasonEmailNotVerified = "email address is not verified"
	ReasonPhoneNotVerified = "phone number is not verified"
	ReasonTooFewBookings   = "fewer than 4 completed bookings in the last year"
	ReasonUnderage         = "candidates must be at least 21 years old"
)

// Ineligible reports why a candidate may not apply right now.
type Ineligible struct {
	Reason string
}

func (e *Ineligible) Error() string {
	return "candidate is not eligible: " + e.Reason
}

// EvaluateEligibility decides whether the candidate may open a new
// application at the given instant. mostRecent may be nil when the candidate
// has no prior application.
func EvaluateEligibility(candidate *models.User, mostRecent *models.Application, now time.Time) error {
	if mostRecent != nil {
		open := mostRecent.Status == models.ApplicationStatusDraft ||
			mostRecent.Status == models.ApplicationStatusInReview
		if open && now.Sub(mostRecent.CreatedAt) < ReapplyCooldown {
			return &Ineligible{Reason: ReasonOpenApplication}
		}
	}
	if !candidate.EmailVerified {
		return &Ineligible{Reason: ReasonEmailNotVerified}
	}
	if !candidate.PhoneVerified {
		return &Ineligible{Reason: ReasonPhoneNotVerified}
	}
	if candidate.BookingsInYear < MinBookingsLastYear {
		return &Ineligible{Reason: ReasonTooFewBookings}
	}
	if candidate.Age(now) < MinAge {
		return &Ineligible{Reason: ReasonUnderage}
	}
	return nil
}
