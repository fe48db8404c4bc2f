package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
)

// CacheRepository keeps per-date fixture lists and TV listings in Redis,
// leaning on native key TTLs for expiry.
type CacheRepository struct {
	client *redis.Client
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

func fixturesKey(date string, competitionID int64) string {
	return fmt.Sprintf("matches:%s:%d", date, competitionID)
}

func listingsKey(date string) string {
	return fmt.Sprintf("tv:%s", date)
}

func (r *CacheRepository) GetFixtures(ctx context.Context, date string, competitionID int64) ([]match.Fixture, bool, error) {
	payload, err := r.client.Get(ctx, fixturesKey(date, competitionID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matches cache date=%s competition=%d: %w", date, competitionID, err)
	}

	var fixtures []match.Fixture
	if err := sonic.UnmarshalString(payload, &fixtures); err != nil {
		return nil, false, fmt.Errorf("decode matches cache payload date=%s: %w", date, err)
	}

	return fixtures, true, nil
}

func (r *CacheRepository) PutFixtures(ctx context.Context, date string, competitionID int64, fixtures []match.Fixture, ttl time.Duration) error {
	if fixtures == nil {
		fixtures = []match.Fixture{}
	}

	payload, err := sonic.MarshalString(fixtures)
	if err != nil {
		return fmt.Errorf("encode matches cache payload date=%s: %w", date, err)
	}

	if err := r.client.Set(ctx, fixturesKey(date, competitionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set matches cache date=%s competition=%d: %w", date, competitionID, err)
	}
	return nil
}

func (r *CacheRepository) GetListings(ctx context.Context, date string) ([]match.Listing, bool, error) {
	payload, err := r.client.Get(ctx, listingsKey(date)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get tv listings cache date=%s: %w", date, err)
	}

	var listings []match.Listing
	if err := sonic.UnmarshalString(payload, &listings); err != nil {
		return nil, false, fmt.Errorf("decode tv listings cache payload date=%s: %w", date, err)
	}

	return listings, true, nil
}

func (r *CacheRepository) PutListings(ctx context.Context, date string, listings []match.Listing, ttl time.Duration) error {
	if listings == nil {
		listings = []match.Listing{}
	}

	payload, err := sonic.MarshalString(listings)
	if err != nil {
		return fmt.Errorf("encode tv listings cache payload date=%s: %w", date, err)
	}

	if err := r.client.Set(ctx, listingsKey(date), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set tv listings cache date=%s: %w", date, err)
	}
	return nil
}
