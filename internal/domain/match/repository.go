package match

import (
	"context"
	"time"
)

// CacheRepository stores per-date fixture lists with a TTL. A missing or
// expired entry reads as absent, never as an error; errors are reserved for
// backend failures.
type CacheRepository interface {
	GetFixtures(ctx context.Context, date string, competitionID int64) ([]Fixture, bool, error)
	PutFixtures(ctx context.Context, date string, competitionID int64, fixtures []Fixture, ttl time.Duration) error
}

// ListingCacheRepository stores scraped TV listings keyed by date.
type ListingCacheRepository interface {
	GetListings(ctx context.Context, date string) ([]Listing, bool, error)
	PutListings(ctx context.Context, date string, listings []Listing, ttl time.Duration) error
}
