package match

import (
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/RattMix/footy-on-today-mate/internal/domain/broadcast"
	"github.com/RattMix/footy-on-today-mate/internal/platform/names"
)

// EnhanceWithListings pairs fixtures with TV guide rows by team name and
// swaps in the guide's channel when a row matches. Fixtures without a
// matching row are returned untouched. The input slice is not modified.
func EnhanceWithListings(fixtures []Fixture, listings []Listing) []Fixture {
	if len(fixtures) == 0 || len(listings) == 0 {
		return fixtures
	}

	keys := make([]string, len(listings))
	for i, listing := range listings {
		keys[i] = listingKey(listing)
	}

	out := make([]Fixture, len(fixtures))
	for i, fixture := range fixtures {
		out[i] = fixture

		home := names.Normalize(fixture.HomeTeam.Name)
		away := names.Normalize(fixture.AwayTeam.Name)
		if home == "" && away == "" {
			continue
		}

		bestIndex := -1
		bestConfidence := 0.0
		for j, key := range keys {
			confidence := pairingConfidence(key, home, away)
			if confidence > bestConfidence {
				bestIndex = j
				bestConfidence = confidence
			}
		}
		if bestIndex < 0 {
			continue
		}

		listing := listings[bestIndex]
		out[i].Channel = broadcast.Resolve(listing.ChannelText)
		out[i].TVMatch = &TVMatchMeta{
			OriginalChannelText: listing.ChannelText,
			MatchConfidence:     bestConfidence,
		}
	}

	return out
}

// pairingConfidence scores a listing against a fixture: 1.0 when both team
// names appear in the row text, 0.5 when only one does, 0 otherwise. Single
// name hits are kept because guide rows often abbreviate one side.
func pairingConfidence(key, home, away string) float64 {
	matched := 0
	if home != "" && strings.Contains(key, home) {
		matched++
	}
	if away != "" && strings.Contains(key, away) {
		matched++
	}
	return float64(matched) / 2
}

// listingKey flattens a guide row into one normalized haystack. Rows are
// compared against every fixture of every requested date, so the flattening
// runs hot and borrows its scratch buffer from a pool.
func listingKey(listing Listing) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(listing.TeamsText)
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(listing.ChannelText)

	return names.Normalize(buf.String())
}
