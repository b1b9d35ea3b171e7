package models

import (
	"sort"
	"strings"
)

// Technical field names carried by every stored record.
const (
	FieldID        = "id"
	FieldLongitude = "lon"
	FieldLatitude  = "lat"
	FieldGeoInfo   = "geoinfo"
	FieldSheet     = "sheet"
	FieldPicture   = "picture"
)

// Record is one imported spreadsheet row: field name to field value. Field
// names are not fixed across records.
type Record map[string]string

// ID returns the technical unique id of the record.
func (r Record) ID() string {
	return r[FieldID]
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold exactly the same fields and values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Geocoded reports whether longitude, latitude and geo-info are all set.
func (r Record) Geocoded() bool {
	return r[FieldLongitude] != "" && r[FieldLatitude] != "" && r[FieldGeoInfo] != ""
}

// PictureFields returns the names of the picture fields in field order
// picture, picture2, picture3, ...
func (r Record) PictureFields() []string {
	var out []string
	for k := range r {
		if strings.HasPrefix(k, FieldPicture) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
