package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix         = "user:%d"
	HotelKeyPrefix        = "hotel:%d"
	HotelCardPrefix       = "hotel:%d:card"
	AvailabilityKeyPrefix = "availability:%s:%s:%d:%d"
	PromoKeyPrefix        = "promo:%s"
)

const (
	UserTTL         = 5 * time.Minute
	HotelTTL        = 30 * time.Minute
	AvailabilityTTL = 1 * time.Minute
	PromoTTL        = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func HotelKey(hotelID uint) string {
	return fmt.Sprintf(HotelKeyPrefix, hotelID)
}

func HotelCardKey(hotelID uint) string {
	return fmt.Sprintf(HotelCardPrefix, hotelID)
}

// AvailabilityKey scopes cached listings by everything the query depends on:
// the candidate's cities, rating tier, party size and page limit. Candidates
// in different tiers must never share an entry.
func AvailabilityKey(cities []string, tier string, partySize, limit int) string {
	return fmt.Sprintf(AvailabilityKeyPrefix, strings.Join(cities, ","), tier, partySize, limit)
}

func PromoKey(code string) string {
	return fmt.Sprintf(PromoKeyPrefix, code)
}

// Aside implements the cache-aside pattern: populate dest from the cached
// value for key if present, otherwise call load and cache the result with the
// given TTL. Cache failures never fail the load path.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
				return nil
			}
		} else if err != redis.Nil {
			// fall through to the loader on Redis errors
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, jsonErr := json.Marshal(dest); jsonErr == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}

	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateHotel(ctx context.Context, hotelID uint) {
	Invalidate(ctx, HotelKey(hotelID))
	Invalidate(ctx, HotelCardKey(hotelID))
}

func InvalidatePromo(ctx context.Context, code string) {
	Invalidate(ctx, PromoKey(code))
}

// InvalidateAvailability drops every cached availability listing. Slot counts
// change on each reservation, so listings are short-lived and cleared broadly.
func InvalidateAvailability(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "availability:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
