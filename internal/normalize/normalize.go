// Package normalize turns free-form address text into comparable keys and
// derives the canonical (street, house number, city, postcode) tuple from a
// record.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reComparableStrip  = regexp.MustCompile(`[,'’\-\s]+`)
	reLeadingDigits    = regexp.MustCompile(`^\s*(\d+)`)
	reTrailingPostcode = regexp.MustCompile(`[\s,]*\b\d{4}\s?(?:[A-Z]{2}|[a-z]{2})\s*$`)
)

// Normalize applies Unicode decomposition, strips combining marks and case
// folds. The result is still readable text.
func Normalize(text string) string {
	// transform chains carry state and must not be shared between goroutines
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// Comparable normalizes text and removes commas, apostrophes, hyphens and
// whitespace. Only for equality tests, never for display.
func Comparable(text string) string {
	return reComparableStrip.ReplaceAllString(Normalize(text), "")
}

// Equal is the strict field comparison: trimmed, case-insensitive, both
// sides non-empty.
func Equal(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// LooseEqual compares both values in comparable form. Empty never matches.
func LooseEqual(a, b string) bool {
	ca := Comparable(a)
	return ca != "" && ca == Comparable(b)
}

// PostcodeEqual compares postcodes ignoring spaces and case.
func PostcodeEqual(a, b string) bool {
	return LooseEqual(a, b)
}

// LeadingDigits returns the leading digit run of a house number: "12-A"
// and "12 a" both give "12".
func LeadingDigits(houseNumber string) string {
	m := reLeadingDigits.FindStringSubmatch(houseNumber)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripTrailingPostcode removes a trailing "1234 AB" token from a query.
func StripTrailingPostcode(query string) string {
	return strings.TrimSpace(reTrailingPostcode.ReplaceAllString(query, ""))
}
