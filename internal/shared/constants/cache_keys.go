package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the booking flow.
// Pattern: tripgo:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "tripgo"
)

// Seat-map responses change whenever seats sell, so they stay short-lived.
const (
	TTL_SEAT_MAP       = 2 * time.Minute
	TTL_JOURNEY_SEARCH = 5 * time.Minute
)

// A booking session lives as long as the user is plausibly still booking.
const (
	TTL_BOOKING_SESSION = 2 * time.Hour
)

const (
	CACHE_KEY_SEAT_MAP        = CACHE_PREFIX + ":inventory:seatmap:schedule:" // + schedule-id[:origin:destination]
	CACHE_KEY_JOURNEY_SEARCH  = CACHE_PREFIX + ":itinerary:search:"           // + origin:destination:date:pax
	CACHE_KEY_BOOKING_SESSION = CACHE_PREFIX + ":booking:session:"            // + session-id
)

// BuildSeatMapKey constructs the cache key for one schedule's seat map,
// refined by origin/destination when loading a specific segment.
func BuildSeatMapKey(scheduleID, origin, destination string) string {
	key := CACHE_KEY_SEAT_MAP + scheduleID
	if origin != "" || destination != "" {
		key += ":" + origin + ":" + destination
	}
	return key
}

func BuildJourneySearchKey(origin, destination, date string, passengerCount int) string {
	return fmt.Sprintf("%s%s:%s:%s:%d", CACHE_KEY_JOURNEY_SEARCH, origin, destination, date, passengerCount)
}

func BuildSessionKey(sessionID string) string {
	return CACHE_KEY_BOOKING_SESSION + sessionID
}
