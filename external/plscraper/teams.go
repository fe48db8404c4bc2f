package plscraper

import (
	"strings"

	"github.com/RattMix/footy-on-today-mate/internal/domain/match"
	"github.com/RattMix/footy-on-today-mate/internal/platform/names"
)

const unknownCrestURL = "https://via.placeholder.com/50x50?text=PL"

const crestURLPrefix = "https://resources.premierleague.com/premierleague/badges/50/"

type teamEntry struct {
	key  string
	info match.TeamInfo
}

// teamTable maps normalized team names to display names and official crests.
// Keys are the output of names.Normalize, so "Manchester United FC" and
// "Man United" both land on the same row via containment.
var teamTable = []teamEntry{
	{"arsenal", team("ARSENAL", "t3")},
	{"aston villa", team("ASTON VILLA", "t7")},
	{"bournemouth", team("AFC BOURNEMOUTH", "t91")},
	{"brentford", team("BRENTFORD", "t94")},
	{"brighton", team("BRIGHTON & HOVE ALBION", "t36")},
	{"burnley", team("BURNLEY", "t90")},
	{"chelsea", team("CHELSEA", "t8")},
	{"crystal palace", team("CRYSTAL PALACE", "t31")},
	{"everton", team("EVERTON", "t11")},
	{"fulham", team("FULHAM", "t54")},
	{"liverpool", team("LIVERPOOL", "t14")},
	{"luton", team("LUTON TOWN", "t102")},
	{"manchester city", team("MANCHESTER CITY", "t43")},
	{"manchester united", team("MANCHESTER UNITED", "t1")},
	{"newcastle", team("NEWCASTLE UNITED", "t4")},
	{"nottingham forest", team("NOTTINGHAM FOREST", "t17")},
	{"sheffield united", team("SHEFFIELD UNITED", "t49")},
	{"tottenham", team("TOTTENHAM HOTSPUR", "t6")},
	{"west ham", team("WEST HAM UNITED", "t21")},
	{"wolves", team("WOLVERHAMPTON WANDERERS", "t39")},
}

func team(name, badge string) match.TeamInfo {
	return match.TeamInfo{Name: name, CrestURL: crestURLPrefix + badge + ".png"}
}

// lookupTeam resolves scraped team text to a known club. Unknown names keep
// their text, uppercased, with a placeholder crest.
func lookupTeam(raw string) match.TeamInfo {
	normalized := names.Normalize(raw)
	if normalized != "" {
		for _, entry := range teamTable {
			if strings.Contains(normalized, entry.key) || strings.Contains(entry.key, normalized) {
				return entry.info
			}
		}
	}
	return match.TeamInfo{
		Name:     strings.ToUpper(strings.TrimSpace(raw)),
		CrestURL: unknownCrestURL,
	}
}

func isKnownTeam(raw string) bool {
	normalized := names.Normalize(raw)
	if normalized == "" {
		return false
	}
	for _, entry := range teamTable {
		if strings.Contains(normalized, entry.key) || strings.Contains(entry.key, normalized) {
			return true
		}
	}
	return false
}
