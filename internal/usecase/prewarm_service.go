package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
)

type PrewarmDateResult struct {
	Date     string `json:"date"`
	Fixtures int    `json:"fixtures"`
	Source   string `json:"source"`
	Error    string `json:"error,omitempty"`
}

type PrewarmResult struct {
	Days      int                 `json:"days"`
	Refreshed int                 `json:"refreshed"`
	Failed    int                 `json:"failed"`
	Results   []PrewarmDateResult `json:"results"`
}

// PrewarmService re-fetches and re-caches upcoming matchdays so user-facing
// requests hit warm cache. It is driven by an internal job endpoint or an
// external scheduler.
type PrewarmService struct {
	matchday    *MatchdayService
	defaultDays int
	logger      *logging.Logger
}

func NewPrewarmService(matchday *MatchdayService, defaultDays int, logger *logging.Logger) *PrewarmService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultDays <= 0 {
		defaultDays = 14
	}
	return &PrewarmService{
		matchday:    matchday,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// Refresh force-refetches today plus the following days-1 dates, bypassing
// cache freshness. Each date records its own outcome; one bad date does not
// stop the run.
func (s *PrewarmService) Refresh(ctx context.Context, days int) (PrewarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrewarmService.Refresh")
	defer span.End()

	if s.matchday == nil {
		return PrewarmResult{}, fmt.Errorf("%w: matchday service is not configured", ErrDependencyUnavailable)
	}
	if days <= 0 {
		days = s.defaultDays
	}

	today := time.Now().UTC()
	dates := make([]string, 0, days)
	for offset := 0; offset < days; offset++ {
		dates = append(dates, today.AddDate(0, 0, offset).Format(matchdayDateLayout))
	}

	workerCount := s.matchday.cfg.FetchConcurrency
	if workerCount > len(dates) {
		workerCount = len(dates)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return PrewarmResult{}, fmt.Errorf("create prewarm worker pool: %w", err)
	}
	defer workerPool.Release()

	results := make([]PrewarmDateResult, len(dates))
	var workers sync.WaitGroup
	for i, date := range dates {
		i, date := i, date
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			row := PrewarmDateResult{Date: date}
			fixtures, source, refreshErr := s.matchday.refreshDate(ctx, date)
			row.Source = source
			if refreshErr != nil {
				row.Error = refreshErr.Error()
			} else {
				row.Fixtures = len(fixtures)
			}
			results[i] = row
		}); err != nil {
			workers.Done()
			return PrewarmResult{}, fmt.Errorf("submit date to prewarm worker pool: %w", err)
		}
	}
	workers.Wait()

	out := PrewarmResult{
		Days:    days,
		Results: results,
	}
	for _, row := range results {
		if row.Error != "" {
			out.Failed++
			continue
		}
		out.Refreshed++
	}

	s.logger.InfoContext(ctx, "prewarm run finished", "days", days, "refreshed", out.Refreshed, "failed", out.Failed)
	return out, nil
}
