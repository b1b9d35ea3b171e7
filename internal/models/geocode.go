package models

// GeocodeProperties holds the address fields as interpreted by the
// external geocoder.
type GeocodeProperties struct {
	Postcode    string `json:"postcode"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
	Country     string `json:"country"`
}

// GeocodeResponse is a single geocoder answer.
type GeocodeResponse struct {
	Longitude   float64           `json:"longitude"`
	Latitude    float64           `json:"latitude"`
	DisplayName string            `json:"display_name"`
	Query       string            `json:"query"`
	Properties  GeocodeProperties `json:"properties"`
}

// MatchStrategy names the cascading-matcher step that produced a match.
type MatchStrategy string

const (
	StrategyCityHousePostcode    MatchStrategy = "CITY_HOUSE_POSTCODE"
	StrategyAddressField         MatchStrategy = "ADDRESS_FIELD"
	StrategyStreetHouseCity      MatchStrategy = "STREET_HOUSE_CITY"
	StrategyStreetCity           MatchStrategy = "STREET_CITY"
	StrategyPostcodeStreet       MatchStrategy = "POSTCODE_STREET"
	StrategyPostcodeCity         MatchStrategy = "POSTCODE_CITY"
	StrategyComposedAddress      MatchStrategy = "COMPOSED_ADDRESS"
	StrategyQuery                MatchStrategy = "QUERY"
	StrategyQueryWithoutPostcode MatchStrategy = "QUERY_WITHOUT_POSTCODE"
	StrategyNone                 MatchStrategy = "NONE"
)

// MatchResult is the outcome of correlating a geocoder answer with a record.
// Record is nil when nothing matched.
type MatchResult struct {
	Record     Record        `json:"record"`
	Strategy   MatchStrategy `json:"strategy"`
	Diagnostic string        `json:"diagnostic"`
}

// Matched reports whether a record was found.
func (m MatchResult) Matched() bool {
	return m.Record != nil
}
