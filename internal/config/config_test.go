package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheBackend != CacheBackendMemory {
		t.Fatalf("unexpected default cache backend: %q", cfg.CacheBackend)
	}
	if cfg.FixturesCacheTTL != 24*time.Hour {
		t.Fatalf("unexpected default fixtures ttl: %s", cfg.FixturesCacheTTL)
	}
	if cfg.TVListingsCacheTTL != time.Hour {
		t.Fatalf("unexpected default tv listings ttl: %s", cfg.TVListingsCacheTTL)
	}
	if cfg.MaxRangeDays != 14 || cfg.PrewarmDays != 14 {
		t.Fatalf("unexpected range defaults: max=%d prewarm=%d", cfg.MaxRangeDays, cfg.PrewarmDays)
	}
	if cfg.CompetitionIDByName["premier-league"] != 39 {
		t.Fatalf("unexpected default competition map: %+v", cfg.CompetitionIDByName)
	}
	if cfg.DefaultCompetition != "premier-league" {
		t.Fatalf("unexpected default competition: %q", cfg.DefaultCompetition)
	}
	if cfg.APIFootballEnabled {
		t.Fatalf("expected API football disabled by default")
	}
	if !cfg.PLScraperEnabled {
		t.Fatalf("expected scraper enabled by default")
	}
}

func TestLoad_CacheBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_BACKEND", "mongo")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid CACHE_BACKEND")
	}
}

func TestLoad_APIFootballRequiresKeyWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_ENABLED", "true")
	t.Setenv("API_FOOTBALL_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API_FOOTBALL_ENABLED=true without API_FOOTBALL_KEY")
	}
}

func TestLoad_APIFootballConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_ENABLED", "true")
	t.Setenv("API_FOOTBALL_KEY", "rapid-key")
	t.Setenv("API_FOOTBALL_TIMEOUT", "5s")
	t.Setenv("API_FOOTBALL_MAX_RETRIES", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.APIFootballEnabled {
		t.Fatalf("expected APIFootballEnabled=true")
	}
	if cfg.APIFootballKey != "rapid-key" {
		t.Fatalf("unexpected api key: %q", cfg.APIFootballKey)
	}
	if cfg.APIFootballTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.APIFootballTimeout)
	}
	if cfg.APIFootballMaxRetries != 3 {
		t.Fatalf("unexpected retries: %d", cfg.APIFootballMaxRetries)
	}
	if cfg.APIFootballBaseURL != "https://v3.football.api-sports.io" {
		t.Fatalf("unexpected base url: %q", cfg.APIFootballBaseURL)
	}
}

func TestLoad_RequiresAtLeastOneSource(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_ENABLED", "false")
	t.Setenv("PL_SCRAPER_ENABLED", "false")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when all fixture sources are disabled")
	}
}

func TestLoad_CompetitionMapParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("custom map", func(t *testing.T) {
		t.Setenv("COMPETITION_ID_MAP", "premier-league:39, championship:40")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CompetitionIDByName["championship"] != 40 {
			t.Fatalf("unexpected map: %+v", cfg.CompetitionIDByName)
		}
	})

	t.Run("invalid item", func(t *testing.T) {
		t.Setenv("COMPETITION_ID_MAP", "premier-league")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for map item without id")
		}
	})

	t.Run("default competition must be mapped", func(t *testing.T) {
		t.Setenv("COMPETITION_ID_MAP", "championship:40")
		t.Setenv("DEFAULT_COMPETITION", "premier-league")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when default competition missing from map")
		}
	})
}

func TestLoad_TTLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("invalid fixtures ttl", func(t *testing.T) {
		t.Setenv("FIXTURES_CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid FIXTURES_CACHE_TTL")
		}
	})

	t.Run("negative tv ttl", func(t *testing.T) {
		t.Setenv("FIXTURES_CACHE_TTL", "24h")
		t.Setenv("TV_LISTINGS_CACHE_TTL", "-1h")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative TV_LISTINGS_CACHE_TTL")
		}
	})
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "footy-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "footy-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}
