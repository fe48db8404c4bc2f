package plscraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/RattMix/footy-on-today-mate/internal/domain/broadcast"
	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
	"github.com/RattMix/footy-on-today-mate/internal/platform/names"
)

const (
	defaultBaseURL   = "https://www.premierleague.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	fixtureSelector  = "[data-fixture], .fixture, .match"
	homeTeamSelector = ".home-team, .team-home, [data-home-team]"
	awayTeamSelector = ".away-team, .team-away, [data-away-team]"
	timeSelector     = ".kick-off-time, .time, [data-time]"
	statusSelector   = ".status, .match-status, [data-status]"
)

type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Scraper pulls fixtures off the Premier League website. It is the fallback
// source, so it never returns an error: any transport or parse failure is
// logged and degrades to an empty fixture list.
type Scraper struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *logging.Logger
}

func New(cfg Config) *Scraper {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Scraper{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// FetchFixturesByDate tries several fixture-page URL variants and returns the
// first non-empty parse. The site reshuffles its markup from time to time,
// which is why both the URLs and the selectors come in ordered chains.
func (s *Scraper) FetchFixturesByDate(ctx context.Context, date string) []match.Fixture {
	urls := []string{
		fmt.Sprintf("%s/fixtures?co=1&cl=-1&date=%s", s.baseURL, date),
		s.baseURL + "/fixtures",
		fmt.Sprintf("%s/fixtures?date=%s", s.baseURL, date),
	}

	for _, pageURL := range urls {
		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.WarnContext(ctx, "fixtures scrape cancelled", "date", date, "error", ctx.Err())
				return []match.Fixture{}
			}
			s.logger.WarnContext(ctx, "fixtures page fetch failed", "url", pageURL, "error", err)
			continue
		}

		fixtures := parseFixtures(doc, date)
		if len(fixtures) > 0 {
			s.logger.InfoContext(ctx, "scraped fixtures", "date", date, "count", len(fixtures), "url", pageURL)
			return fixtures
		}
	}

	s.logger.InfoContext(ctx, "no fixtures found on any fixtures page variant", "date", date)
	return []match.Fixture{}
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("fixtures page status=%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("parse fixtures page: %w", err)
	}
	return doc, nil
}

// parseFixtures tries the structured fixture markup first and falls back to a
// loose "Team v Team" text scan when the site has changed under us.
func parseFixtures(doc *goquery.Document, date string) []match.Fixture {
	fixtures := parseStructuredFixtures(doc, date)
	if len(fixtures) > 0 {
		return fixtures
	}
	return parseLooseFixtures(doc, date)
}

func parseStructuredFixtures(doc *goquery.Document, date string) []match.Fixture {
	fixtures := make([]match.Fixture, 0, 10)

	doc.Find(fixtureSelector).Each(func(_ int, sel *goquery.Selection) {
		home := strings.TrimSpace(sel.Find(homeTeamSelector).First().Text())
		away := strings.TrimSpace(sel.Find(awayTeamSelector).First().Text())
		if home == "" || away == "" {
			return
		}
		if containsPairing(fixtures, home, away) {
			return
		}

		kickoff := strings.TrimSpace(sel.Find(timeSelector).First().Text())
		if !looksLikeKickoff(kickoff) {
			kickoff = match.DefaultKickoff
		}
		status := strings.ToUpper(strings.TrimSpace(sel.Find(statusSelector).First().Text()))

		fixtures = append(fixtures, buildFixture(date, len(fixtures), home, away, kickoff, status))
	})

	return fixtures
}

// parseLooseFixtures scans generic row elements for "Team v Team" text. Both
// sides must resolve to known clubs, otherwise navigation text like
// "Home v Away form guide" would produce phantom fixtures.
func parseLooseFixtures(doc *goquery.Document, date string) []match.Fixture {
	fixtures := make([]match.Fixture, 0, 10)

	doc.Find("li, tr, article").Each(func(_ int, sel *goquery.Selection) {
		home, away, ok := splitPairingText(sel.Text())
		if !ok || !isKnownTeam(home) || !isKnownTeam(away) {
			return
		}
		if containsPairing(fixtures, home, away) {
			return
		}
		fixtures = append(fixtures, buildFixture(date, len(fixtures), home, away, match.DefaultKickoff, ""))
	})

	return fixtures
}

func buildFixture(date string, index int, home, away, kickoff, status string) match.Fixture {
	return match.Fixture{
		ID:          fmt.Sprintf("pl-%s-%d", date, index),
		HomeTeam:    lookupTeam(home),
		AwayTeam:    lookupTeam(away),
		KickoffTime: kickoff,
		Date:        date,
		Competition: "Premier League",
		Channel:     broadcast.DefaultForCompetition("Premier League"),
		IsLive:      status == match.StatusLive,
	}
}

func containsPairing(fixtures []match.Fixture, home, away string) bool {
	for _, existing := range fixtures {
		if names.SamePairing(existing.HomeTeam.Name, existing.AwayTeam.Name, home, away) {
			return true
		}
	}
	return false
}

// splitPairingText splits "Arsenal v Chelsea" style text into two team names.
func splitPairingText(raw string) (string, string, bool) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" || len(text) > 80 {
		return "", "", false
	}

	for _, separator := range []string{" v ", " vs ", " V ", " VS "} {
		left, right, found := strings.Cut(text, separator)
		if !found {
			continue
		}
		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if left == "" || right == "" {
			continue
		}
		return left, right, true
	}
	return "", "", false
}

// looksLikeKickoff accepts "HH:MM" shaped text only; anything else falls back
// to the default slot.
func looksLikeKickoff(raw string) bool {
	if len(raw) != 5 || raw[2] != ':' {
		return false
	}
	for _, index := range []int{0, 1, 3, 4} {
		if raw[index] < '0' || raw[index] > '9' {
			return false
		}
	}
	return true
}
