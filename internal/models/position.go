package models

// Position is one resolved geographic point, either for a matched record or
// for an anonymous query.
type Position struct {
	ID          string  `json:"id"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	DisplayName string  `json:"display_name"`
	GeoInfo     string  `json:"geoinfo,omitempty"`
	RecordID    string  `json:"record_id,omitempty"`
	Address     Address `json:"address"`
}

// PositionEventKind distinguishes position lifecycle events.
type PositionEventKind string

const (
	PositionAdded   PositionEventKind = "added"
	PositionUpdated PositionEventKind = "updated"
	PositionRemoved PositionEventKind = "removed"
)
