package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForTopTierUncapped(t *testing.T) {
	tier := TierFor(7.0)
	assert.Nil(t, tier.MaxHotelRating)
	assert.Equal(t, SortDesc, tier.Order)
}

func TestTierForMidTier(t *testing.T) {
	tier := TierFor(4.0)
	require.NotNil(t, tier.MaxHotelRating)
	assert.Equal(t, 4, *tier.MaxHotelRating)
	assert.Equal(t, SortDesc, tier.Order)
}

func TestTierForLowTierAscending(t *testing.T) {
	tier := TierFor(3.9)
	require.NotNil(t, tier.MaxHotelRating)
	assert.Equal(t, 3, *tier.MaxHotelRating)
	assert.Equal(t, SortAsc, tier.Order)
}

func TestTierNamesAreDistinct(t *testing.T) {
	assert.Equal(t, "top", TierFor(9.0).Name)
	assert.Equal(t, "mid", TierFor(5.0).Name)
	assert.Equal(t, "base", TierFor(1.0).Name)
}

func TestTierBoundariesAreInclusive(t *testing.T) {
	assert.Nil(t, TierFor(7.0).MaxHotelRating)
	assert.NotNil(t, TierFor(6.999).MaxHotelRating)
}

func TestNormalizeRatingClamps(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeRating(-3))
	assert.Equal(t, 10.0, NormalizeRating(15))
	assert.Equal(t, 6.0, NormalizeRating(6))
}
