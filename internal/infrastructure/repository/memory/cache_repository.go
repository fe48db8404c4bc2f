package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/cache"
)

// CacheRepository is the in-process cache backend, used in tests and in
// deployments without Postgres or Redis. State is lost on restart, which is
// acceptable for data with day-scale TTLs.
type CacheRepository struct {
	store *cache.Store
}

func NewCacheRepository(store *cache.Store) *CacheRepository {
	if store == nil {
		store = cache.NewStore(24 * time.Hour)
	}
	return &CacheRepository{store: store}
}

func fixturesKey(date string, competitionID int64) string {
	return fmt.Sprintf("matches:%s:%d", date, competitionID)
}

func listingsKey(date string) string {
	return fmt.Sprintf("tv:%s", date)
}

func (r *CacheRepository) GetFixtures(ctx context.Context, date string, competitionID int64) ([]match.Fixture, bool, error) {
	value, ok := r.store.Get(ctx, fixturesKey(date, competitionID))
	if !ok {
		return nil, false, nil
	}
	fixtures, ok := value.([]match.Fixture)
	if !ok {
		return nil, false, nil
	}
	return fixtures, true, nil
}

func (r *CacheRepository) PutFixtures(ctx context.Context, date string, competitionID int64, fixtures []match.Fixture, ttl time.Duration) error {
	if fixtures == nil {
		fixtures = []match.Fixture{}
	}
	r.store.SetWithTTL(ctx, fixturesKey(date, competitionID), fixtures, ttl)
	return nil
}

func (r *CacheRepository) GetListings(ctx context.Context, date string) ([]match.Listing, bool, error) {
	value, ok := r.store.Get(ctx, listingsKey(date))
	if !ok {
		return nil, false, nil
	}
	listings, ok := value.([]match.Listing)
	if !ok {
		return nil, false, nil
	}
	return listings, true, nil
}

func (r *CacheRepository) PutListings(ctx context.Context, date string, listings []match.Listing, ttl time.Duration) error {
	if listings == nil {
		listings = []match.Listing{}
	}
	r.store.SetWithTTL(ctx, listingsKey(date), listings, ttl)
	return nil
}
