package broadcast

import "strings"

const (
	skyLogoURL    = "https://logos-world.net/wp-content/uploads/2021/08/Sky-Sports-Logo.png"
	btLogoURL     = "https://logos-world.net/wp-content/uploads/2021/08/BT-Sport-Logo.png"
	tntLogoURL    = "https://logos-world.net/wp-content/uploads/2023/07/TNT-Sports-Logo.png"
	amazonLogoURL = "https://logos-world.net/wp-content/uploads/2021/03/Amazon-Prime-Video-Logo.png"
	bbcLogoURL    = "https://logos-world.net/wp-content/uploads/2020/06/BBC-One-Logo.png"
	itvLogoURL    = "https://logos-world.net/wp-content/uploads/2021/03/ITV-Logo.png"
)

type channelEntry struct {
	key  string
	info ChannelInfo
}

// channelTable is matched in order. Substring matching means earlier, more
// specific keys must come before shorter ones that would shadow them.
var channelTable = []channelEntry{
	{key: "sky sports premier league", info: ChannelInfo{Name: "SKY SPORTS PREMIER LEAGUE", LogoURL: skyLogoURL}},
	{key: "sky sports football", info: ChannelInfo{Name: "SKY SPORTS FOOTBALL", LogoURL: skyLogoURL}},
	{key: "sky sports main event", info: ChannelInfo{Name: "SKY SPORTS MAIN EVENT", LogoURL: skyLogoURL}},
	{key: "bt sport 1", info: ChannelInfo{Name: "BT SPORT 1", LogoURL: btLogoURL}},
	{key: "bt sport 2", info: ChannelInfo{Name: "BT SPORT 2", LogoURL: btLogoURL}},
	{key: "bt sport 3", info: ChannelInfo{Name: "BT SPORT 3", LogoURL: btLogoURL}},
	{key: "tnt sports 1", info: ChannelInfo{Name: "TNT SPORTS 1", LogoURL: tntLogoURL}},
	{key: "tnt sports 2", info: ChannelInfo{Name: "TNT SPORTS 2", LogoURL: tntLogoURL}},
	{key: "amazon prime", info: ChannelInfo{Name: "AMAZON PRIME VIDEO", LogoURL: amazonLogoURL}},
	{key: "bbc one", info: ChannelInfo{Name: "BBC ONE", LogoURL: bbcLogoURL}},
	{key: "itv", info: ChannelInfo{Name: "ITV", LogoURL: itvLogoURL}},
}

// Resolve maps free-form broadcaster text to a known channel.
//
// Matching is bidirectional substring against the table keys, so "Sky Sports
// Premier League HD" and the bare "itv" both land on table entries. Text that
// misses the table goes through keyword heuristics before the uppercase
// fallback. Empty input resolves to TBC.
func Resolve(raw string) ChannelInfo {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return TBC
	}

	for _, entry := range channelTable {
		if strings.Contains(normalized, entry.key) || strings.Contains(entry.key, normalized) {
			return entry.info
		}
	}

	if info, ok := resolveByKeyword(normalized); ok {
		return info
	}

	return ChannelInfo{
		Name:    strings.ToUpper(strings.TrimSpace(raw)),
		LogoURL: FallbackLogoURL,
	}
}

func resolveByKeyword(normalized string) (ChannelInfo, bool) {
	switch {
	case strings.Contains(normalized, "sky") && strings.Contains(normalized, "premier"):
		return mustKnown("SKY SPORTS PREMIER LEAGUE"), true
	case strings.Contains(normalized, "tnt"), strings.Contains(normalized, "bt sport"):
		return mustKnown("TNT SPORTS 1"), true
	case strings.Contains(normalized, "amazon"), strings.Contains(normalized, "prime"):
		return mustKnown("AMAZON PRIME VIDEO"), true
	case strings.Contains(normalized, "bbc"):
		return mustKnown("BBC ONE"), true
	case strings.Contains(normalized, "itv"):
		return mustKnown("ITV"), true
	}
	return ChannelInfo{}, false
}

// Known looks up a channel by its display name.
func Known(name string) (ChannelInfo, bool) {
	for _, entry := range channelTable {
		if entry.info.Name == name {
			return entry.info, true
		}
	}
	return ChannelInfo{}, false
}

func mustKnown(name string) ChannelInfo {
	info, ok := Known(name)
	if !ok {
		return TBC
	}
	return info
}

// DefaultForCompetition returns the broadcaster assumed for a competition
// when no listing data is available.
func DefaultForCompetition(competition string) ChannelInfo {
	if strings.EqualFold(strings.TrimSpace(competition), "Premier League") {
		return mustKnown("SKY SPORTS PREMIER LEAGUE")
	}
	return TBC
}
