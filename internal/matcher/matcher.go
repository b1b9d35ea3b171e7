// Package matcher correlates a geocoder answer with the record it was
// requested for. Geocoders echo back postcodes, house numbers and city names
// that often disagree with the spreadsheet, so the matcher tries a cascade
// of successively looser strategies and reports which fields look wrong.
package matcher

import (
	"fmt"
	"strings"

	"address-reconciler/internal/models"
	"address-reconciler/internal/normalize"
	"address-reconciler/internal/schema"

	"github.com/agnivade/levenshtein"
)

// Query holds the address fields as returned by the geocoder plus the
// free-text query that was sent.
type Query struct {
	Postcode    string
	HouseNumber string
	Street      string
	City        string
	Text        string
}

// QueryFromResponse builds a query from a geocoder response.
func QueryFromResponse(resp models.GeocodeResponse) Query {
	return Query{
		Postcode:    resp.Properties.Postcode,
		HouseNumber: resp.Properties.HouseNumber,
		Street:      resp.Properties.Street,
		City:        resp.Properties.City,
		Text:        resp.Query,
	}
}

func (q Query) composed() string {
	return models.Address{Street: q.Street, HouseNumber: q.HouseNumber, City: q.City}.String()
}

func (q Query) describe() string {
	if strings.TrimSpace(q.Text) != "" {
		return strings.TrimSpace(q.Text)
	}
	return models.Address{Street: q.Street, HouseNumber: q.HouseNumber, City: q.City, Postcode: q.Postcode}.String()
}

// RecordSource supplies the records to match against.
type RecordSource interface {
	Snapshot() []models.Record
}

// Matcher runs the matching cascade against a record source.
type Matcher struct {
	records RecordSource
}

// New creates a matcher over records.
func New(records RecordSource) *Matcher {
	return &Matcher{records: records}
}

type candidate struct {
	record  models.Record
	address models.Address
	raw     string
	forms   []string
}

func newCandidate(r models.Record) candidate {
	a, _ := normalize.ExtractAddress(r)
	raw := schema.Discover(r).Value(r, schema.Address)
	c := candidate{record: r, address: a, raw: raw}
	for _, form := range []string{
		raw,
		a.Street + a.HouseNumber + a.City,
		a.Street + a.HouseNumber + a.Postcode + a.City,
		a.Street + a.HouseNumber + a.City + a.Postcode,
	} {
		if f := normalize.Comparable(form); f != "" {
			c.forms = append(c.forms, f)
		}
	}
	return c
}

func (c candidate) hasForm(comparable string) bool {
	if comparable == "" {
		return false
	}
	for _, f := range c.forms {
		if f == comparable {
			return true
		}
	}
	return false
}

type step struct {
	strategy models.MatchStrategy
	match    func(c candidate, q Query) bool
}

var steps = []step{
	{models.StrategyCityHousePostcode, func(c candidate, q Query) bool {
		return normalize.Equal(c.address.City, q.City) &&
			normalize.HouseNumberEqual(c.address.HouseNumber, q.HouseNumber, normalize.HouseExact) &&
			normalize.PostcodeEqual(c.address.Postcode, q.Postcode)
	}},
	addressFieldStep(normalize.HouseExact),
	addressFieldStep(normalize.HousePunctuation),
	addressFieldStep(normalize.HouseDigits),
	{models.StrategyStreetHouseCity, func(c candidate, q Query) bool {
		return normalize.Equal(c.address.Street, q.Street) &&
			normalize.HouseNumberEqual(c.address.HouseNumber, q.HouseNumber, normalize.HouseExact) &&
			normalize.Equal(c.address.City, q.City)
	}},
	{models.StrategyStreetCity, func(c candidate, q Query) bool {
		return normalize.Equal(c.address.Street, q.Street) &&
			normalize.Equal(c.address.City, q.City) &&
			normalize.HouseNumberEqual(c.address.HouseNumber, q.HouseNumber, normalize.HouseDigits)
	}},
	{models.StrategyPostcodeStreet, func(c candidate, q Query) bool {
		return normalize.PostcodeEqual(c.address.Postcode, q.Postcode) &&
			normalize.Equal(c.address.Street, q.Street) &&
			normalize.HouseNumberEqual(c.address.HouseNumber, q.HouseNumber, normalize.HouseDigits)
	}},
	{models.StrategyPostcodeCity, func(c candidate, q Query) bool {
		return normalize.PostcodeEqual(c.address.Postcode, q.Postcode) &&
			normalize.Equal(c.address.City, q.City) &&
			normalize.HouseNumberEqual(c.address.HouseNumber, q.HouseNumber, normalize.HouseDigits)
	}},
	{models.StrategyComposedAddress, func(c candidate, q Query) bool {
		return c.hasForm(normalize.Comparable(q.Street + q.HouseNumber + q.City))
	}},
	{models.StrategyQuery, func(c candidate, q Query) bool {
		return c.hasForm(normalize.Comparable(q.Text))
	}},
	{models.StrategyQueryWithoutPostcode, func(c candidate, q Query) bool {
		return c.hasForm(normalize.Comparable(normalize.StripTrailingPostcode(q.Text)))
	}},
}

// addressFieldStep matches postcode, city and house number against the raw
// combined address field, comparing house numbers in the given mode.
func addressFieldStep(mode normalize.HouseMode) step {
	return step{models.StrategyAddressField, func(c candidate, q Query) bool {
		city := normalize.Comparable(q.City)
		return c.raw != "" && city != "" &&
			strings.Contains(normalize.Comparable(c.raw), city) &&
			normalize.PostcodeEqual(c.address.Postcode, q.Postcode) &&
			normalize.HouseNumberEqual(c.address.HouseNumber, q.HouseNumber, mode)
	}}
}

// Match returns the first record found by the cascade. A match on the
// first, strictest strategy carries no diagnostic; any later match names the
// fields that probably need fixing in the spreadsheet. When nothing matches
// the result has no record and a not-found diagnostic.
func (m *Matcher) Match(q Query) models.MatchResult {
	records := m.records.Snapshot()
	candidates := make([]candidate, 0, len(records))
	for _, r := range records {
		candidates = append(candidates, newCandidate(r))
	}

	for i, s := range steps {
		for _, c := range candidates {
			if !s.match(c, q) {
				continue
			}
			result := models.MatchResult{Record: c.record, Strategy: s.strategy}
			if i > 0 {
				result.Diagnostic = diagnose(c, q, s.strategy)
			}
			return result
		}
	}

	return models.MatchResult{Strategy: models.StrategyNone, Diagnostic: notFound(candidates, q)}
}

type fieldChange struct {
	field string
	from  string
	to    string
}

// diagnose lists the record fields that disagree with the geocoder.
func diagnose(c candidate, q Query, strategy models.MatchStrategy) string {
	var changes []fieldChange
	add := func(field, from, to string, same bool) {
		if strings.TrimSpace(to) != "" && !same {
			changes = append(changes, fieldChange{field: field, from: from, to: to})
		}
	}
	a := c.address
	add("postcode", a.Postcode, q.Postcode, normalize.PostcodeEqual(a.Postcode, q.Postcode))
	add("housenumber", a.HouseNumber, q.HouseNumber, normalize.HouseNumberEqual(a.HouseNumber, q.HouseNumber, normalize.HouseExact))
	add("street", a.Street, q.Street, normalize.Equal(a.Street, q.Street))
	add("city", a.City, q.City, normalize.Equal(a.City, q.City))

	if len(changes) == 0 {
		return fmt.Sprintf("matched %q loosely (%s); check the spelling in the spreadsheet", a.String(), strategy)
	}

	fields := make([]string, 0, len(changes))
	edits := make([]string, 0, len(changes))
	for _, ch := range changes {
		fields = append(fields, ch.field)
		edits = append(edits, fmt.Sprintf("change %s %q to %q", ch.field, ch.from, ch.to))
	}
	return fmt.Sprintf("please fix %s of %q: %s", strings.Join(fields, ", "), a.String(), strings.Join(edits, ", "))
}

// notFound reports the query and, when there is one, the closest record by
// edit distance so the user knows where to look.
func notFound(candidates []candidate, q Query) string {
	msg := fmt.Sprintf("address not found: %q", q.describe())

	target := normalize.Comparable(q.composed())
	if target == "" {
		target = normalize.Comparable(q.Text)
	}
	if target == "" {
		return msg
	}

	best, bestDist := -1, 0
	for i, c := range candidates {
		form := normalize.Comparable(c.address.Street + c.address.HouseNumber + c.address.City)
		if form == "" {
			continue
		}
		d := levenshtein.ComputeDistance(target, form)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return msg
	}
	return fmt.Sprintf("%s; closest record is %q", msg, candidates[best].address.String())
}
