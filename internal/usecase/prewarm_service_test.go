package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
)

func TestPrewarmRefresh_WarmsEachDate(t *testing.T) {
	t.Parallel()

	today := time.Now().UTC().Format(matchdayDateLayout)
	cacheRepo := newFakeCacheRepo()
	provider := &fakeProvider{fixtures: map[string][]match.Fixture{
		today: {matchdayFixture("today-1", today, "15:00")},
	}}

	matchday := NewMatchdayService(defaultMatchdayConfig(), provider, &fakeScraper{}, nil, cacheRepo, nil, logging.NewNop())
	prewarm := NewPrewarmService(matchday, 14, logging.NewNop())

	result, err := prewarm.Refresh(context.Background(), 3)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.Days != 3 || len(result.Results) != 3 {
		t.Fatalf("expected 3 per-date results, got=%+v", result)
	}
	if result.Refreshed != 3 || result.Failed != 0 {
		t.Fatalf("expected all dates refreshed, got=%+v", result)
	}

	if result.Results[0].Date != today {
		t.Fatalf("expected first date to be today, got=%q", result.Results[0].Date)
	}
	if result.Results[0].Fixtures != 1 || result.Results[0].Source != sourceAPIFootball {
		t.Fatalf("unexpected first date stats: %+v", result.Results[0])
	}

	if _, ok, _ := cacheRepo.GetFixtures(context.Background(), today, 39); !ok {
		t.Fatal("expected today's fixtures to be cached")
	}
	if cacheRepo.putCalls != 3 {
		t.Fatalf("expected 3 cache writes, got=%d", cacheRepo.putCalls)
	}
}

func TestPrewarmRefresh_DefaultDays(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	matchday := NewMatchdayService(defaultMatchdayConfig(), provider, &fakeScraper{}, nil, newFakeCacheRepo(), nil, logging.NewNop())
	prewarm := NewPrewarmService(matchday, 5, logging.NewNop())

	result, err := prewarm.Refresh(context.Background(), 0)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.Days != 5 || len(result.Results) != 5 {
		t.Fatalf("expected default of 5 days, got=%+v", result)
	}
}

func TestPrewarmRefresh_RecordsPerDateFailures(t *testing.T) {
	t.Parallel()

	today := time.Now().UTC().Format(matchdayDateLayout)
	cfg := defaultMatchdayConfig()
	cfg.PLScraperEnabled = false

	provider := &fakeProvider{
		err:      errors.New("provider down"),
		errDates: map[string]bool{today: true},
	}

	matchday := NewMatchdayService(cfg, provider, nil, nil, newFakeCacheRepo(), nil, logging.NewNop())
	prewarm := NewPrewarmService(matchday, 14, logging.NewNop())

	result, err := prewarm.Refresh(context.Background(), 2)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.Failed != 1 || result.Refreshed != 1 {
		t.Fatalf("expected one failed and one refreshed date, got=%+v", result)
	}
	if result.Results[0].Error == "" {
		t.Fatalf("expected first date to record its error, got=%+v", result.Results[0])
	}
}

func TestPrewarmRefresh_WithoutMatchdayService(t *testing.T) {
	t.Parallel()

	prewarm := NewPrewarmService(nil, 14, logging.NewNop())
	if _, err := prewarm.Refresh(context.Background(), 1); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}
