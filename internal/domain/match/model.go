package match

import (
	"sort"
	"strings"

	"github.com/RattMix/footy-on-today-mate/internal/domain/broadcast"
)

// DefaultKickoff is used when a source carries no usable kickoff time. It
// doubles as the traditional Saturday 3pm slot and as a sort-friendly
// sentinel.
const DefaultKickoff = "15:00"

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
)

// TeamInfo is the display form of one side of a fixture.
type TeamInfo struct {
	Name     string `json:"name"`
	CrestURL string `json:"crest"`
}

// TVMatchMeta records how a fixture was paired with a scraped TV listing.
type TVMatchMeta struct {
	OriginalChannelText string  `json:"originalChannelText"`
	MatchConfidence     float64 `json:"matchConfidence"`
}

// Fixture is one match on a given date, with broadcast information attached.
type Fixture struct {
	ID          string                `json:"id"`
	HomeTeam    TeamInfo              `json:"homeTeam"`
	AwayTeam    TeamInfo              `json:"awayTeam"`
	KickoffTime string                `json:"kickoffTime"`
	Date        string                `json:"date"`
	Competition string                `json:"competition"`
	Channel     broadcast.ChannelInfo `json:"channel"`
	IsLive      bool                  `json:"isLive"`
	TVMatch     *TVMatchMeta          `json:"tvMatch,omitempty"`
}

// Listing is one row scraped from a TV guide, before it is paired with a
// fixture.
type Listing struct {
	Time        string `json:"time"`
	TeamsText   string `json:"teamsText"`
	ChannelText string `json:"channelText"`
}

func IsLiveStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusLive, "IN_PLAY", "1H", "2H", "HT", "ET":
		return true
	default:
		return false
	}
}

// SortFixtures orders fixtures by date then kickoff time. Both fields are
// zero-padded strings, so lexicographic order is chronological order; the
// sort is stable so source order breaks ties.
func SortFixtures(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		if fixtures[i].Date != fixtures[j].Date {
			return fixtures[i].Date < fixtures[j].Date
		}
		return fixtures[i].KickoffTime < fixtures[j].KickoffTime
	})
}
