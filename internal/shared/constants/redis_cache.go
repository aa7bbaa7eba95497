package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values, centralized.
// Pattern: cinetix:{module}:{operation}:{identifier}

const CACHE_PREFIX = "cinetix"

// Static catalog data (changes on admin writes only)
const (
	TTL_MOVIES_LIST   = 1 * time.Hour
	TTL_MOVIE_DETAIL  = 2 * time.Hour
	TTL_SHOWINGS_LIST = 15 * time.Minute
)

// Highly dynamic seat data (changes on every hold/release/sale)
const (
	TTL_SEAT_MAP = 30 * time.Second
)

// Movie catalog keys
const (
	CACHE_KEY_MOVIES_LIST   = CACHE_PREFIX + ":movies:list"
	CACHE_KEY_MOVIE_DETAIL  = CACHE_PREFIX + ":movies:detail:"   // + movie-id
	CACHE_KEY_MOVIES_SEARCH = CACHE_PREFIX + ":movies:search:"   // + query
	CACHE_KEY_SHOWINGS_LIST = CACHE_PREFIX + ":showings:list"    // optionally + :movie:X
	CACHE_KEY_SEAT_MAP      = CACHE_PREFIX + ":showings:seatmap:" // + showing-id
)

// BuildMovieDetailKey builds the cache key for a single movie
func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

// BuildMovieSearchKey builds the cache key for a catalog search
func BuildMovieSearchKey(query string) string {
	return CACHE_KEY_MOVIES_SEARCH + query
}

// BuildShowingsByMovieKey builds the cache key for a movie's showings
func BuildShowingsByMovieKey(movieID string) string {
	return fmt.Sprintf("%s:movie:%s", CACHE_KEY_SHOWINGS_LIST, movieID)
}

// BuildSeatMapKey builds the cache key for a showing's seat map
func BuildSeatMapKey(showingID string) string {
	return CACHE_KEY_SEAT_MAP + showingID
}

// SeatMapInvalidationPattern matches every cached seat map for a showing.
func SeatMapInvalidationPattern(showingID string) string {
	return CACHE_KEY_SEAT_MAP + showingID + "*"
}
