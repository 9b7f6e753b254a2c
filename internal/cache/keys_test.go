package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedHotel struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestAsideCachesLoadedValue(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	loads := 0
	load := func(dest *cachedHotel) func() error {
		return func() error {
			loads++
			dest.ID = 42
			dest.Name = "Grand Lisboa"
			return nil
		}
	}

	var first cachedHotel
	require.NoError(t, Aside(ctx, HotelKey(42), &first, HotelTTL, load(&first)))
	assert.Equal(t, 1, loads)
	assert.Equal(t, "Grand Lisboa", first.Name)

	// Second read is served from the cache without hitting the loader.
	var second cachedHotel
	require.NoError(t, Aside(ctx, HotelKey(42), &second, HotelTTL, load(&second)))
	assert.Equal(t, 1, loads)
	assert.Equal(t, uint(42), second.ID)
}

func TestAsideWithoutClientAlwaysLoads(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	loads := 0
	var out cachedHotel
	load := func() error {
		loads++
		out.ID = 1
		return nil
	}

	require.NoError(t, Aside(ctx, HotelKey(1), &out, time.Minute, load))
	require.NoError(t, Aside(ctx, HotelKey(1), &out, time.Minute, load))
	assert.Equal(t, 2, loads)
}

func TestInvalidateUserDropsKey(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var u cachedHotel
	require.NoError(t, Aside(ctx, UserKey(5), &u, UserTTL, func() error {
		u.ID = 5
		return nil
	}))
	require.True(t, mr.Exists(UserKey(5)))

	InvalidateUser(ctx, 5)
	assert.False(t, mr.Exists(UserKey(5)))
}

// Candidates in different tiers, or asking for different page sizes, must be
// served from distinct availability entries.
func TestAvailabilityKeyScopedByTierAndLimit(t *testing.T) {
	top := AvailabilityKey([]string{"Lisbon"}, "top", 2, 20)
	base := AvailabilityKey([]string{"Lisbon"}, "base", 2, 20)
	assert.NotEqual(t, top, base)

	short := AvailabilityKey([]string{"Lisbon"}, "top", 2, 5)
	assert.NotEqual(t, top, short)

	multi := AvailabilityKey([]string{"Lisbon", "Porto"}, "top", 2, 20)
	assert.NotEqual(t, top, multi)
}

func TestInvalidateAvailabilityClearsListings(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	lisbon := AvailabilityKey([]string{"Lisbon"}, "mid", 2, 20)
	porto := AvailabilityKey([]string{"Porto"}, "top", 4, 20)
	require.NoError(t, mr.Set(lisbon, "[]"))
	require.NoError(t, mr.Set(porto, "[]"))
	require.NoError(t, mr.Set(UserKey(9), "{}"))

	InvalidateAvailability(ctx)

	assert.False(t, mr.Exists(lisbon))
	assert.False(t, mr.Exists(porto))
	assert.True(t, mr.Exists(UserKey(9)))
}
