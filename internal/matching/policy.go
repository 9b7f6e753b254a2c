// Package matching holds the inventory ranking policy of the secret guest
// program: which hotels a candidate of a given rating tier may be offered,
// and in what order.
package matching

// SortOrder is the direction hotels are ranked by rating within a tier.
type SortOrder string

const (
	// SortDesc ranks higher-rated hotels first.
	SortDesc SortOrder = "desc"
	// SortAsc ranks lower-rated hotels first.
	SortAsc SortOrder = "asc"
)

// CandidateRatingMax is the upper bound of the normalized candidate rating.
const CandidateRatingMax = 10

// TierPolicy describes the hotel filter and ordering for one candidate
// rating tier.
type TierPolicy struct {
	// Name identifies the tier in cache keys and logs.
	Name string
	// MinRating is the inclusive lower bound of the tier on the normalized
	// candidate rating scale.
	MinRating float64
	// MaxHotelRating caps the rating of offered hotels; nil means no cap.
	MaxHotelRating *int
	// Order ranks hotels by rating within the tier.
	Order SortOrder
}

func ratingCap(v int) *int { return &v }

// tiers is evaluated high to low; the first tier whose MinRating the
// candidate reaches applies. Low-rating candidates are deliberately steered
// toward lower-rated hotels first.
var tiers = []TierPolicy{
	{Name: "top", MinRating: 7.0, MaxHotelRating: nil, Order: SortDesc},
	{Name: "mid", MinRating: 4.0, MaxHotelRating: ratingCap(4), Order: SortDesc},
	{Name: "base", MinRating: 0.0, MaxHotelRating: ratingCap(3), Order: SortAsc},
}

// NormalizeRating clamps a stored candidate rating onto [0,10].
func NormalizeRating(rating int) float64 {
	if rating < 0 {
		return 0
	}
	if rating > CandidateRatingMax {
		return CandidateRatingMax
	}
	return float64(rating)
}

// TierFor returns the policy applying to a normalized candidate rating.
func TierFor(rating float64) TierPolicy {
	for _, tier := range tiers {
		if rating >= tier.MinRating {
			return tier
		}
	}
	return tiers[len(tiers)-1]
}
