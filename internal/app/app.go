package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/RattMix/footy-on-today-mate/external/apifootball"
	"github.com/RattMix/footy-on-today-mate/external/plscraper"
	"github.com/RattMix/footy-on-today-mate/external/tvlistings"
	"github.com/RattMix/footy-on-today-mate/internal/config"
	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/infrastructure/repository/memory"
	"github.com/RattMix/footy-on-today-mate/internal/infrastructure/repository/postgres"
	redisrepo "github.com/RattMix/footy-on-today-mate/internal/infrastructure/repository/redis"
	"github.com/RattMix/footy-on-today-mate/internal/interfaces/httpapi"
	"github.com/RattMix/footy-on-today-mate/internal/platform/cache"
	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
	"github.com/RattMix/footy-on-today-mate/internal/platform/resilience"
	"github.com/RattMix/footy-on-today-mate/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cacheRepo, listingRepo, closeCache, err := buildCacheRepositories(cfg)
	if err != nil {
		return nil, err
	}

	var provider usecase.FixtureProvider
	if cfg.APIFootballEnabled {
		provider = apifootball.NewClient(apifootball.ClientConfig{
			BaseURL:    cfg.APIFootballBaseURL,
			Key:        cfg.APIFootballKey,
			Timeout:    cfg.APIFootballTimeout,
			MaxRetries: cfg.APIFootballMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.APIFootballCircuitEnabled,
				FailureThreshold: cfg.APIFootballCircuitFailures,
				OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMax,
			},
		})
	}

	var scraper usecase.FixtureScraper
	if cfg.PLScraperEnabled {
		scraper = plscraper.New(plscraper.Config{
			BaseURL:   cfg.PLScraperBaseURL,
			UserAgent: cfg.ScraperUserAgent,
			Timeout:   cfg.ScraperTimeout,
			Logger:    logger,
		})
	}

	var listingSource usecase.ListingSource
	if cfg.TVListingsEnabled {
		listingSource = tvlistings.New(tvlistings.Config{
			BaseURL:   cfg.TVListingsBaseURL,
			UserAgent: cfg.ScraperUserAgent,
			Timeout:   cfg.ScraperTimeout,
			Logger:    logger,
		})
	}

	matchdaySvc := usecase.NewMatchdayService(usecase.MatchdayConfig{
		APIFootballEnabled:  cfg.APIFootballEnabled,
		PLScraperEnabled:    cfg.PLScraperEnabled,
		TVListingsEnabled:   cfg.TVListingsEnabled,
		CompetitionIDByName: cfg.CompetitionIDByName,
		DefaultCompetition:  cfg.DefaultCompetition,
		MaxRangeDays:        cfg.MaxRangeDays,
		FetchConcurrency:    cfg.FetchConcurrency,
		FixturesTTL:         cfg.FixturesCacheTTL,
		ListingsTTL:         cfg.TVListingsCacheTTL,
	}, provider, scraper, listingSource, cacheRepo, listingRepo, logger)

	prewarmSvc := usecase.NewPrewarmService(matchdaySvc, cfg.PrewarmDays, logger)

	handler := httpapi.NewHandler(matchdaySvc, prewarmSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	server.RegisterOnShutdown(func() {
		if err := closeCache(); err != nil {
			logger.Warn("close cache backend", "error", err)
		}
	})

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildCacheRepositories selects the cache backend. The returned close func
// releases the backing connection pool, if any.
func buildCacheRepositories(cfg config.Config) (match.CacheRepository, match.ListingCacheRepository, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		repo := memory.NewCacheRepository(cache.NewStore(cfg.FixturesCacheTTL))
		return repo, repo, noClose, nil

	case config.CacheBackendPostgres:
		db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewMatchesCacheRepository(db), postgres.NewTVListingsCacheRepository(db), closeDB(db), nil

	case config.CacheBackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		repo := redisrepo.NewCacheRepository(client)
		return repo, repo, client.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func closeDB(db *sqlx.DB) func() error {
	return func() error { return db.Close() }
}
