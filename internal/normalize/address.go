package normalize

import (
	"regexp"
	"strings"

	"address-reconciler/internal/models"
	"address-reconciler/internal/schema"
)

var (
	// street, house number with an optional letter or numeric suffix, rest
	reCombined = regexp.MustCompile(`^\s*(.+?)\s+(\d+(?:-?[A-Za-z]{1,3}\b|\s[A-Za-z]\b)?(?:[-/]\d+)?)\s*(?:,\s*|\s+|$)(.*)$`)
	rePostcode = regexp.MustCompile(`(?:^|[\s,])(\d{4}(?:\s?(?:[A-Z]{2}|[a-z]{2}))?)(?:$|[\s,])`)
)

// SplitAddress splits a combined address such as "Main 12, Springfield" or
// "Main 12-A, 1234 AB Springfield" into its parts. A postcode found in the
// city part is returned separately and removed from the city.
func SplitAddress(combined string) (models.Address, bool) {
	m := reCombined.FindStringSubmatch(combined)
	if m == nil {
		return models.Address{}, false
	}
	a := models.Address{
		Street:      strings.TrimSpace(m[1]),
		HouseNumber: strings.TrimSpace(m[2]),
	}
	city := strings.TrimSpace(m[3])
	if pm := rePostcode.FindStringSubmatchIndex(city); pm != nil {
		a.Postcode = city[pm[2]:pm[3]]
		city = city[:pm[2]] + " " + city[pm[3]:]
	}
	a.City = strings.Trim(strings.Join(strings.Fields(city), " "), ", ")
	return a, true
}

// ExtractAddress reads whatever address parts the record has, preferring a
// parsable combined address field. combined reports whether that field was
// used. No completeness check is made.
func ExtractAddress(r models.Record) (a models.Address, combined bool) {
	s := schema.Discover(r)
	postcode := s.Value(r, schema.Postcode)

	if raw := s.Value(r, schema.Address); raw != "" {
		if split, ok := SplitAddress(raw); ok {
			if postcode != "" {
				split.Postcode = postcode
			}
			if split.City == "" {
				split.City = s.Value(r, schema.City)
			}
			return split, true
		}
	}

	return models.Address{
		Street:      s.Value(r, schema.Street),
		HouseNumber: s.Value(r, schema.HouseNumber),
		City:        s.Value(r, schema.City),
		Postcode:    postcode,
	}, false
}

// DeriveAddress computes the canonical address of a record from either its
// combined address field or its separate fields. ok is false when the record
// has no usable address: no parsable combined address and not all of city,
// postcode and house number.
func DeriveAddress(r models.Record) (models.Address, bool) {
	a, combined := ExtractAddress(r)
	if combined {
		return a, true
	}
	if a.City == "" || a.Postcode == "" || a.HouseNumber == "" {
		return models.Address{}, false
	}
	return a, true
}

// Key is the comparable merge key of an address.
func Key(a models.Address) string {
	return Comparable(a.Street) + "|" + Comparable(a.HouseNumber) + "|" + Comparable(a.City) + "|" + Comparable(a.Postcode)
}

// RecordKey derives the merge key of a record.
func RecordKey(r models.Record) (string, bool) {
	a, ok := DeriveAddress(r)
	if !ok {
		return "", false
	}
	return Key(a), true
}

// SameAddress reports whether two addresses are the same place.
func SameAddress(a, b models.Address) bool {
	return Key(a) == Key(b)
}
