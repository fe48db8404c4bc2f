package tvlistings

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
)

const (
	defaultBaseURL   = "https://www.livesportontv.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	rowSelector     = "tr.match-row, .fixture-row, .listing-row"
	timeSelector    = ".time, .kick-off, .match-time"
	teamsSelector   = ".teams, .match-teams, .fixture"
	channelSelector = ".channel, .tv-channel, .broadcaster"
)

type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Scraper pulls the football TV guide. Listings only ever enhance fixtures,
// so failures degrade to an empty list rather than an error.
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

// FetchListings scrapes the football guide page. The guide covers several
// days, so rows are not filtered by date here; the matcher pairs them against
// the fixtures of the date being served.
func (s *Scraper) FetchListings(ctx context.Context, date string) []match.Listing {
	pageURL := s.baseURL + "/sport/football/"

	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		s.logger.WarnContext(ctx, "tv listings fetch failed", "date", date, "url", pageURL, "error", err)
		return []match.Listing{}
	}

	listings := parseListings(doc)
	s.logger.InfoContext(ctx, "scraped tv listings", "date", date, "count", len(listings))
	return listings
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
		return nil, fmt.Errorf("tv guide status=%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("parse tv guide: %w", err)
	}
	return doc, nil
}

func parseListings(doc *goquery.Document) []match.Listing {
	listings := make([]match.Listing, 0, 32)

	doc.Find(rowSelector).Each(func(_ int, sel *goquery.Selection) {
		kickoff := strings.TrimSpace(sel.Find(timeSelector).First().Text())
		teams := strings.TrimSpace(sel.Find(teamsSelector).First().Text())
		channel := strings.TrimSpace(sel.Find(channelSelector).First().Text())
		if kickoff == "" || teams == "" || channel == "" {
			return
		}
		listings = append(listings, match.Listing{
			Time:        kickoff,
			TeamsText:   teams,
			ChannelText: channel,
		})
	})

	return listings
}
