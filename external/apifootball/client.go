package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/RattMix/footy-on-today-mate/internal/domain/broadcast"
	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
	"github.com/RattMix/footy-on-today-mate/internal/platform/resilience"
	"github.com/RattMix/footy-on-today-mate/internal/usecase"
)

const (
	defaultBaseURL   = "https://v3.football.api-sports.io"
	dateLayout       = "2006-01-02"
	fallbackCrestURL = "https://via.placeholder.com/50"
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

var (
	londonOnce sync.Once
	londonLoc  *time.Location
)

// london returns Europe/London, falling back to UTC when the tz database is
// unavailable. Kickoff times are rendered in UK local time.
func london() *time.Location {
	londonOnce.Do(func() {
		loc, err := time.LoadLocation("Europe/London")
		if err != nil {
			loc = time.UTC
		}
		londonLoc = loc
	})
	return londonLoc
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the API-Football v3 fixtures endpoint. It carries a circuit
// breaker and deduplicates identical in-flight requests, so a burst of
// requests for the same date costs one upstream call.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	key            string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		key:            strings.TrimSpace(cfg.Key),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchFixturesByDate returns the fixtures for one calendar day in one league.
// The season year is inferred from the date: league seasons run August to May,
// so January through June belong to the previous season year.
func (c *Client) FetchFixturesByDate(ctx context.Context, date string, leagueID int64, competition string) ([]match.Fixture, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"date":   day.Format(dateLayout),
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(SeasonForDate(day)),
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s league=%d: %w", date, leagueID, err)
	}

	out := make([]match.Fixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, mapFixture(item, day, competition))
	}
	return out, nil
}

// SeasonForDate maps a calendar date to an API-Football season year.
func SeasonForDate(day time.Time) int {
	if day.Month() < time.July {
		return day.Year() - 1
	}
	return day.Year()
}

func mapFixture(item fixtureItem, day time.Time, competition string) match.Fixture {
	kickoffTime := match.DefaultKickoff
	fixtureDate := day.Format(dateLayout)
	if parsed := parseProviderDateTime(item.Fixture.Date); parsed != nil {
		local := parsed.In(london())
		kickoffTime = local.Format("15:04")
		fixtureDate = local.Format(dateLayout)
	}

	name := strings.TrimSpace(item.League.Name)
	if name == "" {
		name = competition
	}

	return match.Fixture{
		ID:          strconv.FormatInt(item.Fixture.ID, 10),
		HomeTeam:    mapTeam(item.Teams.Home),
		AwayTeam:    mapTeam(item.Teams.Away),
		KickoffTime: kickoffTime,
		Date:        fixtureDate,
		Competition: name,
		Channel:     broadcast.DefaultForCompetition(competition),
		IsLive:      match.IsLiveStatus(item.Fixture.Status.Short),
	}
}

func mapTeam(side teamSide) match.TeamInfo {
	crest := strings.TrimSpace(side.Logo)
	if crest == "" {
		crest = fallbackCrestURL
	}
	return match.TeamInfo{
		Name:     strings.ToUpper(strings.TrimSpace(side.Name)),
		CrestURL: crest,
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixture data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(path+"?"+values.Encode(), func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isTransientFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	host := defaultBaseURL
	if parsed, err := url.Parse(c.baseURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("X-RapidAPI-Key", c.key)
		req.Header.Set("X-RapidAPI-Host", host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.key))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed
			return &v
		}
	}
	return nil
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" || key == "" {
		return value
	}
	return strings.ReplaceAll(value, key, "REDACTED")
}

func isTransientFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAPIFootballTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureCore `json:"fixture"`
	League  leagueInfo  `json:"league"`
	Teams   teamsInfo   `json:"teams"`
}

type fixtureCore struct {
	ID     int64      `json:"id"`
	Date   string     `json:"date"`
	Status statusInfo `json:"status"`
}

type statusInfo struct {
	Short string `json:"short"`
}

type leagueInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type teamsInfo struct {
	Home teamSide `json:"home"`
	Away teamSide `json:"away"`
}

type teamSide struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}
