package models

import "strings"

// Address is the canonical 4-tuple derived from a record. Values are kept
// in display form; comparison goes through the normalize package.
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
	City        string `json:"city"`
	Postcode    string `json:"postcode"`
}

// String renders the address as "street housenumber, postcode city".
func (a Address) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Street + " " + a.HouseNumber))
	tail := strings.TrimSpace(a.Postcode + " " + a.City)
	if tail != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tail)
	}
	return b.String()
}
