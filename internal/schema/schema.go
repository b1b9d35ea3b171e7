// Package schema discovers which column of an imported record holds each
// logical address field. Spreadsheets name their columns inconsistently, so
// discovery runs per record against an ordered synonym table.
package schema

import (
	"sort"
	"strings"

	"address-reconciler/internal/models"
)

// Field is a logical address field.
type Field string

const (
	Address     Field = "address"
	Street      Field = "street"
	Postcode    Field = "postcode"
	HouseNumber Field = "housenumber"
	City        Field = "city"
)

// Synonyms lists the known column names for one logical field, most
// preferred first, and the name assumed when none is present.
type Synonyms struct {
	Field   Field
	Names   []string
	Default string
}

// Table is consulted in order. Keep it in sync with the spreadsheets that
// are actually imported.
var Table = []Synonyms{
	{Field: Address, Names: []string{"address", "adres", "adresse", "full address", "volledig adres"}, Default: "address"},
	{Field: Street, Names: []string{"street", "straat", "straatnaam", "strasse", "road"}, Default: "street"},
	{Field: Postcode, Names: []string{"postcode", "zipcode", "zip", "postal code", "postalcode", "plz"}, Default: "postcode"},
	{Field: HouseNumber, Names: []string{"housenumber", "house number", "huisnummer", "hausnummer", "number", "nr"}, Default: "housenumber"},
	{Field: City, Names: []string{"city", "plaats", "woonplaats", "stad", "town", "ort"}, Default: "city"},
}

// Schema is the discovered column name per logical field for one record.
type Schema struct {
	names map[Field]string
	found map[Field]bool
}

// Discover resolves every logical field against the record's column names.
// An exact column name wins over a case-insensitive one.
func Discover(r models.Record) Schema {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := Schema{names: make(map[Field]string, len(Table)), found: make(map[Field]bool, len(Table))}
	for _, entry := range Table {
		name, ok := lookup(r, keys, entry.Names)
		if !ok {
			name = entry.Default
		}
		s.names[entry.Field] = name
		s.found[entry.Field] = ok
	}
	return s
}

func lookup(r models.Record, keys []string, synonyms []string) (string, bool) {
	for _, syn := range synonyms {
		if _, ok := r[syn]; ok {
			return syn, true
		}
		for _, k := range keys {
			if strings.EqualFold(strings.TrimSpace(k), syn) {
				return k, true
			}
		}
	}
	return "", false
}

// Name returns the column name to use for f. For a missing field this is
// the table default; check Has before relying on it.
func (s Schema) Name(f Field) string {
	return s.names[f]
}

// Has reports whether f was actually present in the record.
func (s Schema) Has(f Field) bool {
	return s.found[f]
}

// Missing lists the logical fields that were not found, in table order.
func (s Schema) Missing() []Field {
	var out []Field
	for _, entry := range Table {
		if !s.found[entry.Field] {
			out = append(out, entry.Field)
		}
	}
	return out
}

// Value returns the trimmed value of f in r, or "" when f is missing.
func (s Schema) Value(r models.Record, f Field) string {
	if !s.found[f] {
		return ""
	}
	return strings.TrimSpace(r[s.names[f]])
}
