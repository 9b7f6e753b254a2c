// Package scoring implements the eligibility and application-scoring rules
// of the secret guest program. The package is pure: no I/O, no clocks other
// than the instants passed in.
package scoring

import (
	"math"
	"time"

	"secretguest/internal/models"
)

// Raw score bounds over the five questionnaire contributions.
const (
	RawScoreMin = -4
	RawScoreMax = 5
)

// Normalized score bounds after rescaling.
const (
	NormalizedScoreMin = 0
	NormalizedScoreMax = 12
)

// answerContributions is the per-question, per-answer contribution table.
// Every question admits exactly the answers "a", "b", "c".
var answerContributions = map[string]map[string]int{
	"q4": {"a": 0, "b": 1, "c": -1},
	"q5": {"a": -1, "b": 1, "c": 0},
	"q6": {"a": 0, "b": 1, "c": -1},
	"q7": {"a": -1, "b": 1, "c": 0},
	"q8": {"a": 1, "b": 0, "c": 0},
}

// RawScore sums the per-answer contributions for the five fixed questions.
// Returns a validation error naming the first missing or out-of-domain answer.
func RawScore(answers models.AnswerSet) (int, error) {
	total := 0
	for _, q := range models.ApplicationQuestions {
		answer, ok := answers[q]
		if !ok {
			return 0, models.NewValidationError("Missing answer for question " + q)
		}
		contribution, ok := answerContributions[q][answer]
		if !ok {
			return 0, models.NewValidationError("Invalid answer for question " + q)
		}
		total += contribution
	}
	return total, nil
}

// Normalize clamps a raw score to [-4,5] and linearly rescales it to [0,12],
// rounding ties half up.
func Normalize(raw int) int {
	if raw < RawScoreMin {
		raw = RawScoreMin
	}
	if raw > RawScoreMax {
		raw = RawScoreMax
	}
	span := float64(RawScoreMax - RawScoreMin)
	scaled := float64(raw-RawScoreMin) / span * float64(NormalizedScoreMax)
	normalized := int(math.Floor(scaled + 0.5))
	if normalized < NormalizedScoreMin {
		normalized = NormalizedScoreMin
	}
	if normalized > NormalizedScoreMax {
		normalized = NormalizedScoreMax
	}
	return normalized
}

// CandidateBonus computes the 0-7 bonus for a bound candidate: whole-year
// tenure steps plus the guru level clamped to [0,4].
func CandidateBonus(candidate *models.User, now time.Time) int {
	if candidate == nil {
		return 0
	}
	bonus := 0
	switch years := candidate.TenureYears(now); {
	case years >= 3:
		bonus += 3
	case years >= 2:
		bonus += 2
	case years >= 1:
		bonus++
	}
	guru := candidate.GuruLevel
	if guru < 0 {
		guru = 0
	}
	if guru > 4 {
		guru = 4
	}
	return bonus + guru
}

// Score computes the total application score: normalized answer score plus
// candidate bonus. The total is intentionally left uncapped above the
// normalized maximum; statusForScore treats everything >= 9 alike.
func Score(application *models.Application, candidate *models.User, now time.Time) (int, error) {
	raw, err := RawScore(application.Answers)
	if err != nil {
		return 0, err
	}
	return Normalize(raw) + CandidateBonus(candidate, now), nil
}

// StatusForScore maps a total score onto the application status thresholds.
func StatusForScore(score int) models.ApplicationStatus {
	switch {
	case score <= 4:
		return models.ApplicationStatusRejected
	case score <= 8:
		return models.ApplicationStatusInReview
	default:
		return models.ApplicationStatusAccepted
	}
}
