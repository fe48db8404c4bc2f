package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	qb "github.com/RattMix/footy-on-today-mate/internal/platform/querybuilder"
)

// TVListingsCacheRepository stores scraped TV guide rows per date.
type TVListingsCacheRepository struct {
	db *sqlx.DB
}

func NewTVListingsCacheRepository(db *sqlx.DB) *TVListingsCacheRepository {
	return &TVListingsCacheRepository{db: db}
}

func (r *TVListingsCacheRepository) GetListings(ctx context.Context, date string) ([]match.Listing, bool, error) {
	query, args, err := qb.Select("payload").
		From("tv_listings_cache").
		Where(
			qb.Eq("listing_date", date),
			qb.Expr("expires_at > NOW()"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select tv listings cache query: %w", err)
	}

	var payload string
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select tv listings cache date=%s: %w", date, err)
	}

	var listings []match.Listing
	if err := sonic.UnmarshalString(payload, &listings); err != nil {
		return nil, false, fmt.Errorf("decode tv listings cache payload date=%s: %w", date, err)
	}

	return listings, true, nil
}

func (r *TVListingsCacheRepository) PutListings(ctx context.Context, date string, listings []match.Listing, ttl time.Duration) error {
	if listings == nil {
		listings = []match.Listing{}
	}

	payload, err := sonic.MarshalString(listings)
	if err != nil {
		return fmt.Errorf("encode tv listings cache payload date=%s: %w", date, err)
	}

	insertModel := tvListingsCacheInsertModel{
		ListingDate: date,
		Payload:     payload,
		ExpiresAt:   time.Now().UTC().Add(ttl),
	}

	query, args, err := qb.InsertModel("tv_listings_cache", insertModel, `ON CONFLICT (listing_date)
DO UPDATE SET
    payload = EXCLUDED.payload,
    expires_at = EXCLUDED.expires_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert tv listings cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert tv listings cache date=%s: %w", date, err)
	}

	return nil
}

type tvListingsCacheInsertModel struct {
	ListingDate string    `db:"listing_date"`
	Payload     string    `db:"payload"`
	ExpiresAt   time.Time `db:"expires_at"`
}
