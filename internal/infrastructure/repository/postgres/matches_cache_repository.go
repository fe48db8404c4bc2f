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

// MatchesCacheRepository stores per-date fixture lists in the matches_cache
// table, keyed by match date and competition.
type MatchesCacheRepository struct {
	db *sqlx.DB
}

func NewMatchesCacheRepository(db *sqlx.DB) *MatchesCacheRepository {
	return &MatchesCacheRepository{db: db}
}

func (r *MatchesCacheRepository) GetFixtures(ctx context.Context, date string, competitionID int64) ([]match.Fixture, bool, error) {
	query, args, err := qb.Select("payload").
		From("matches_cache").
		Where(
			qb.Eq("match_date", date),
			qb.Eq("competition_id", competitionID),
			qb.Expr("expires_at > NOW()"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select matches cache query: %w", err)
	}

	var payload string
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select matches cache date=%s competition=%d: %w", date, competitionID, err)
	}

	var fixtures []match.Fixture
	if err := sonic.UnmarshalString(payload, &fixtures); err != nil {
		return nil, false, fmt.Errorf("decode matches cache payload date=%s: %w", date, err)
	}

	return fixtures, true, nil
}

func (r *MatchesCacheRepository) PutFixtures(ctx context.Context, date string, competitionID int64, fixtures []match.Fixture, ttl time.Duration) error {
	if fixtures == nil {
		fixtures = []match.Fixture{}
	}

	payload, err := sonic.MarshalString(fixtures)
	if err != nil {
		return fmt.Errorf("encode matches cache payload date=%s: %w", date, err)
	}

	insertModel := matchesCacheInsertModel{
		MatchDate:     date,
		CompetitionID: competitionID,
		Payload:       payload,
		ExpiresAt:     time.Now().UTC().Add(ttl),
	}

	query, args, err := qb.InsertModel("matches_cache", insertModel, `ON CONFLICT (match_date, competition_id)
DO UPDATE SET
    payload = EXCLUDED.payload,
    expires_at = EXCLUDED.expires_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert matches cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert matches cache date=%s competition=%d: %w", date, competitionID, err)
	}

	return nil
}

type matchesCacheInsertModel struct {
	MatchDate     string    `db:"match_date"`
	CompetitionID int64     `db:"competition_id"`
	Payload       string    `db:"payload"`
	ExpiresAt     time.Time `db:"expires_at"`
}
