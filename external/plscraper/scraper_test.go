package plscraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/RattMix/footy-on-today-mate/internal/platform/logging"
)

const structuredHTML = `<html><body>
<div class="fixture">
  <span class="home-team">Arsenal FC</span>
  <span class="away-team">Chelsea</span>
  <span class="time">17:30</span>
</div>
<div class="fixture">
  <span class="home-team">Arsenal</span>
  <span class="away-team">Chelsea FC</span>
  <span class="time">17:30</span>
</div>
<div class="fixture">
  <span class="home-team">Mystery Town</span>
  <span class="away-team">Everton</span>
  <span class="status">LIVE</span>
</div>
</body></html>`

const looseHTML = `<html><body>
<ul>
  <li>Liverpool v Fulham</li>
  <li>Match centre: Home v Away form guide for the season so far and beyond</li>
  <li>Brighton vs Burnley</li>
</ul>
</body></html>`

func parseTestDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test html: %v", err)
	}
	return doc
}

func TestParseStructuredFixtures(t *testing.T) {
	t.Parallel()

	fixtures := parseFixtures(parseTestDocument(t, structuredHTML), "2026-09-01")
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures after de-dup, got=%d: %+v", len(fixtures), fixtures)
	}

	first := fixtures[0]
	if first.ID != "pl-2026-09-01-0" {
		t.Fatalf("unexpected fixture id %q", first.ID)
	}
	if first.HomeTeam.Name != "ARSENAL" || first.AwayTeam.Name != "CHELSEA" {
		t.Fatalf("unexpected teams: %q vs %q", first.HomeTeam.Name, first.AwayTeam.Name)
	}
	if !strings.HasSuffix(first.HomeTeam.CrestURL, "/t3.png") {
		t.Fatalf("expected arsenal crest, got=%q", first.HomeTeam.CrestURL)
	}
	if first.KickoffTime != "17:30" {
		t.Fatalf("expected kickoff 17:30, got=%q", first.KickoffTime)
	}
	if first.Competition != "Premier League" {
		t.Fatalf("unexpected competition %q", first.Competition)
	}
	if first.Channel.Name != "SKY SPORTS PREMIER LEAGUE" {
		t.Fatalf("unexpected channel %q", first.Channel.Name)
	}
	if first.IsLive {
		t.Fatal("fixture without LIVE status should not be live")
	}

	second := fixtures[1]
	if second.HomeTeam.Name != "MYSTERY TOWN" {
		t.Fatalf("expected uppercased unknown team, got=%q", second.HomeTeam.Name)
	}
	if second.HomeTeam.CrestURL != unknownCrestURL {
		t.Fatalf("expected placeholder crest, got=%q", second.HomeTeam.CrestURL)
	}
	if second.KickoffTime != "15:00" {
		t.Fatalf("expected default kickoff, got=%q", second.KickoffTime)
	}
	if !second.IsLive {
		t.Fatal("expected LIVE status to mark fixture live")
	}
}

func TestParseLooseFixtures(t *testing.T) {
	t.Parallel()

	fixtures := parseFixtures(parseTestDocument(t, looseHTML), "2026-09-05")
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got=%d: %+v", len(fixtures), fixtures)
	}
	if fixtures[0].HomeTeam.Name != "LIVERPOOL" || fixtures[0].AwayTeam.Name != "FULHAM" {
		t.Fatalf("unexpected first pairing: %+v", fixtures[0])
	}
	if fixtures[1].HomeTeam.Name != "BRIGHTON & HOVE ALBION" || fixtures[1].AwayTeam.Name != "BURNLEY" {
		t.Fatalf("unexpected second pairing: %+v", fixtures[1])
	}
}

func TestFetchFixturesByDate_FallsThroughURLVariants(t *testing.T) {
	t.Parallel()

	requests := make([]string, 0, 3)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		if r.URL.Query().Get("co") == "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(structuredHTML))
	}))
	defer server.Close()

	scraper := New(Config{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	fixtures := scraper.FetchFixturesByDate(context.Background(), "2026-09-01")
	if len(fixtures) != 2 {
		t.Fatalf("expected fixtures from second URL variant, got=%d", len(fixtures))
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 upstream requests, got=%d: %v", len(requests), requests)
	}
}

func TestFetchFixturesByDate_NeverErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scraper := New(Config{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})

	fixtures := scraper.FetchFixturesByDate(context.Background(), "2026-09-01")
	if fixtures == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if len(fixtures) != 0 {
		t.Fatalf("expected no fixtures, got=%d", len(fixtures))
	}
}

func TestLookupTeamContainment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"Arsenal FC", "ARSENAL"},
		{"Spurs Tottenham", "TOTTENHAM HOTSPUR"},
		{"Newcastle United", "NEWCASTLE UNITED"},
		{"AFC Bournemouth", "AFC BOURNEMOUTH"},
	}
	for _, tc := range cases {
		if got := lookupTeam(tc.raw); got.Name != tc.want {
			t.Fatalf("lookup %q: expected %q, got %q", tc.raw, tc.want, got.Name)
		}
	}
}
