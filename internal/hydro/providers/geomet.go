// Package providers contains clients for the GeoMet OGC API hydrometric
// collections published by the Meteorological Service of Canada.
package providers

import "encoding/json"

// DefaultBaseURL is the public GeoMet OGC API root.
const DefaultBaseURL = "https://api.weather.gc.ca"

// featureCollection is the GeoJSON envelope every GeoMet collection returns.
// Properties are kept raw so each client can apply its own schema; there is
// exactly one schema per endpoint, and anything that does not match it is
// skipped rather than guessed at.
type featureCollection struct {
	Features       []feature `json:"features"`
	NumberMatched  int       `json:"numberMatched"`
	NumberReturned int       `json:"numberReturned"`
}

type feature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}
