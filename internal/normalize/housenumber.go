package normalize

import "strings"

// HouseMode selects how strictly two house numbers are compared.
type HouseMode int

const (
	// HouseExact compares trimmed values case-insensitively: "12a" == "12A".
	HouseExact HouseMode = iota
	// HousePunctuation ignores hyphens and spaces: "12-A" == "12 a" == "12a".
	HousePunctuation
	// HouseDigits compares only the leading digit run: "12-A" == "12".
	HouseDigits
)

// HouseModes lists the modes from strictest to loosest.
var HouseModes = []HouseMode{HouseExact, HousePunctuation, HouseDigits}

func (m HouseMode) String() string {
	switch m {
	case HouseExact:
		return "exact"
	case HousePunctuation:
		return "punctuation-insensitive"
	case HouseDigits:
		return "digits-only"
	default:
		return "unknown"
	}
}

// HouseNumberEqual reports whether two house numbers are the same under
// mode. Empty house numbers never match.
func HouseNumberEqual(a, b string, mode HouseMode) bool {
	switch mode {
	case HouseExact:
		return Equal(a, b)
	case HousePunctuation:
		return LooseEqual(a, b)
	case HouseDigits:
		da := LeadingDigits(a)
		return da != "" && da == LeadingDigits(b)
	default:
		return false
	}
}

// HouseNumberMatches tries every mode from strictest to loosest and returns
// the first that matches.
func HouseNumberMatches(a, b string) (HouseMode, bool) {
	for _, mode := range HouseModes {
		if HouseNumberEqual(a, b, mode) {
			return mode, true
		}
	}
	return 0, false
}

// HasSuffix reports whether the house number carries anything beyond its
// leading digits, e.g. "12-A" or "12 bis".
func HasSuffix(houseNumber string) bool {
	h := strings.TrimSpace(houseNumber)
	return h != "" && LeadingDigits(h) != h
}
