package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
)

const matchdayDateLayout = "2006-01-02"

const (
	sourceAPIFootball = "api-football"
	sourcePLScraper   = "pl-scraper"
	sourceNone        = "none"
)

// FixtureProvider is the primary fixture source. Unlike the scrapers it
// surfaces errors, so the orchestrator can decide to fall back.
type FixtureProvider interface {
	FetchFixturesByDate(ctx context.Context, date string, leagueID int64, competition string) ([]match.Fixture, error)
}

type FixtureScraper interface {
	FetchFixturesByDate(ctx context.Context, date string) []match.Fixture
}

type ListingSource interface {
	FetchListings(ctx context.Context, date string) []match.Listing
}

type MatchdayConfig struct {
	APIFootballEnabled  bool
	PLScraperEnabled    bool
	TVListingsEnabled   bool
	CompetitionIDByName map[string]int64
	DefaultCompetition  string
	MaxRangeDays        int
	FetchConcurrency    int
	FixturesTTL         time.Duration
	ListingsTTL         time.Duration
}

type MatchdayResult struct {
	Matches []match.Fixture `json:"matches"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
}

// MatchdayService answers "what football is on between these dates" by
// expanding the range, serving each date read-through from cache, and
// enhancing fresh fetches with TV guide data.
type MatchdayService struct {
	cfg           MatchdayConfig
	provider      FixtureProvider
	scraper       FixtureScraper
	listingSource ListingSource
	cacheRepo     match.CacheRepository
	listingRepo   match.ListingCacheRepository
	logger        *logging.Logger
}

func NewMatchdayService(
	cfg MatchdayConfig,
	provider FixtureProvider,
	scraper FixtureScraper,
	listingSource ListingSource,
	cacheRepo match.CacheRepository,
	listingRepo match.ListingCacheRepository,
	logger *logging.Logger,
) *MatchdayService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = 14
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}
	if cfg.FixturesTTL <= 0 {
		cfg.FixturesTTL = 24 * time.Hour
	}
	if cfg.ListingsTTL <= 0 {
		cfg.ListingsTTL = time.Hour
	}
	if strings.TrimSpace(cfg.DefaultCompetition) == "" {
		cfg.DefaultCompetition = "premier-league"
	}

	return &MatchdayService{
		cfg:           cfg,
		provider:      provider,
		scraper:       scraper,
		listingSource: listingSource,
		cacheRepo:     cacheRepo,
		listingRepo:   listingRepo,
		logger:        logger,
	}
}

// GetMatches returns all fixtures between dateFrom and dateTo inclusive,
// sorted by date and kickoff. Dates are fetched concurrently and each date
// fails in isolation: a bad day contributes zero fixtures, never an error.
func (s *MatchdayService) GetMatches(ctx context.Context, dateFrom, dateTo string) (MatchdayResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.GetMatches")
	defer span.End()

	if !s.cfg.APIFootballEnabled && !s.cfg.PLScraperEnabled {
		return MatchdayResult{}, fmt.Errorf("%w: no fixture source is configured", ErrDependencyUnavailable)
	}

	dates, err := expandDateRange(dateFrom, dateTo, s.cfg.MaxRangeDays)
	if err != nil {
		return MatchdayResult{}, err
	}

	perDate := make([][]match.Fixture, len(dates))
	workers := pool.New().WithMaxGoroutines(s.cfg.FetchConcurrency)
	for i, date := range dates {
		i, date := i, date
		workers.Go(func() {
			perDate[i] = s.fixturesForDate(ctx, date)
		})
	}
	workers.Wait()

	matches := make([]match.Fixture, 0, 16)
	for _, fixtures := range perDate {
		matches = append(matches, fixtures...)
	}
	match.SortFixtures(matches)

	return MatchdayResult{
		Matches: matches,
		Count:   len(matches),
		Message: resultMessage(len(matches)),
	}, nil
}

func resultMessage(count int) string {
	if count > 0 {
		return fmt.Sprintf("✅ Successfully fetched %d matches", count)
	}
	return "📭 No matches found for the requested dates"
}

// expandDateRange lists the dates between from and to inclusive. An inverted
// range is an empty range, not an error.
func expandDateRange(dateFrom, dateTo string, maxDays int) ([]string, error) {
	from, err := time.Parse(matchdayDateLayout, strings.TrimSpace(dateFrom))
	if err != nil {
		return nil, fmt.Errorf("%w: dateFrom must be formatted YYYY-MM-DD", ErrInvalidInput)
	}
	to, err := time.Parse(matchdayDateLayout, strings.TrimSpace(dateTo))
	if err != nil {
		return nil, fmt.Errorf("%w: dateTo must be formatted YYYY-MM-DD", ErrInvalidInput)
	}

	if from.After(to) {
		return []string{}, nil
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if maxDays > 0 && days > maxDays {
		return nil, fmt.Errorf("%w: date range spans %d days, maximum is %d", ErrInvalidInput, days, maxDays)
	}

	dates := make([]string, 0, days)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day.Format(matchdayDateLayout))
	}
	return dates, nil
}

func (s *MatchdayService) competitionID() int64 {
	return s.cfg.CompetitionIDByName[s.cfg.DefaultCompetition]
}

// competitionName turns the configured slug into a display name, so
// "premier-league" renders as "Premier League" in responses.
func (s *MatchdayService) competitionName() string {
	words := strings.Split(s.cfg.DefaultCompetition, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (s *MatchdayService) fixturesForDate(ctx context.Context, date string) []match.Fixture {
	if s.cacheRepo != nil {
		fixtures, ok, err := s.cacheRepo.GetFixtures(ctx, date, s.competitionID())
		if err != nil {
			s.logger.WarnContext(ctx, "fixtures cache read failed", "date", date, "error", err)
		}
		if ok {
			return fixtures
		}
	}

	fixtures, _, err := s.refreshDate(ctx, date)
	if err != nil {
		s.logger.WarnContext(ctx, "fixtures fetch failed, date contributes no matches", "date", date, "error", err)
		return []match.Fixture{}
	}
	return fixtures
}

// refreshDate fetches a date from the source chain, enhances it with TV
// listings, and caches the outcome. Empty results are cached too, so a day
// without football does not hammer the sources. Cache write failures are
// logged and swallowed: the cache is an optimization, not a dependency.
func (s *MatchdayService) refreshDate(ctx context.Context, date string) ([]match.Fixture, string, error) {
	fixtures, source, err := s.fetchFromSources(ctx, date)
	if err != nil {
		return nil, source, err
	}

	if s.cfg.TVListingsEnabled && s.listingSource != nil && len(fixtures) > 0 {
		fixtures = match.EnhanceWithListings(fixtures, s.listingsForDate(ctx, date))
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.PutFixtures(ctx, date, s.competitionID(), fixtures, s.cfg.FixturesTTL); err != nil {
			s.logger.WarnContext(ctx, "fixtures cache write failed", "date", date, "error", err)
		}
	}

	return fixtures, source, nil
}

func (s *MatchdayService) fetchFromSources(ctx context.Context, date string) ([]match.Fixture, string, error) {
	if s.cfg.APIFootballEnabled && s.provider != nil {
		fixtures, err := s.provider.FetchFixturesByDate(ctx, date, s.competitionID(), s.competitionName())
		if err == nil {
			return fixtures, sourceAPIFootball, nil
		}
		if !s.cfg.PLScraperEnabled || s.scraper == nil {
			return nil, sourceAPIFootball, err
		}
		s.logger.WarnContext(ctx, "primary fixture source failed, falling back to scraper", "date", date, "error", err)
	}

	if s.cfg.PLScraperEnabled && s.scraper != nil {
		return s.scraper.FetchFixturesByDate(ctx, date), sourcePLScraper, nil
	}

	return []match.Fixture{}, sourceNone, nil
}

func (s *MatchdayService) listingsForDate(ctx context.Context, date string) []match.Listing {
	if s.listingRepo != nil {
		listings, ok, err := s.listingRepo.GetListings(ctx, date)
		if err != nil {
			s.logger.WarnContext(ctx, "tv listings cache read failed", "date", date, "error", err)
		}
		if ok {
			return listings
		}
	}

	listings := s.listingSource.FetchListings(ctx, date)

	if s.listingRepo != nil {
		if err := s.listingRepo.PutListings(ctx, date, listings, s.cfg.ListingsTTL); err != nil {
			s.logger.WarnContext(ctx, "tv listings cache write failed", "date", date, "error", err)
		}
	}
	return listings
}
