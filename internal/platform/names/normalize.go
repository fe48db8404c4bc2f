package names

import "strings"

// suffixTokens are trailing words dropped during normalization so that
// "Manchester United" and "Manchester Utd FC" style variants collide on the
// same key. At most one suffix is removed per call.
var suffixTokens = map[string]struct{}{
	"fc":     {},
	"cf":     {},
	"united": {},
	"city":   {},
}

// Normalize produces the comparison key for a team name: lowercased, with
// whitespace collapsed and at most one trailing suffix token removed.
func Normalize(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return ""
	}

	last := fields[len(fields)-1]
	if _, ok := suffixTokens[last]; ok {
		fields = fields[:len(fields)-1]
	}

	return strings.Join(fields, " ")
}

// SamePairing reports whether two home/away pairs refer to the same fixture
// after normalization, regardless of listing order.
func SamePairing(homeA, awayA, homeB, awayB string) bool {
	ha, aa := Normalize(homeA), Normalize(awayA)
	hb, ab := Normalize(homeB), Normalize(awayB)
	if ha == "" || aa == "" {
		return false
	}
	return (ha == hb && aa == ab) || (ha == ab && aa == hb)
}
