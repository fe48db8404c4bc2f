package broadcast

// ChannelInfo describes the broadcaster a fixture is shown on.
type ChannelInfo struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo"`
}

// FallbackLogoURL is used when a channel string cannot be matched to a known
// broadcaster.
const FallbackLogoURL = "https://via.placeholder.com/100x50?text=TV"

// TBC is returned for fixtures with no broadcast information at all.
var TBC = ChannelInfo{Name: "TBC", LogoURL: FallbackLogoURL}
