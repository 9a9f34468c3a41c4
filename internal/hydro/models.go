package hydro

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component. The zero value
// means "no date".
type Date struct {
	time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Source identifies which upstream collection a daily record came from.
type Source string

const (
	SourceHistorical Source = "historical"
	SourceRealtime   Source = "realtime"
	SourceStations   Source = "stations"
)

// DailyRecord is the unit of the combined timeline: one calendar day of
// discharge and/or level for a station. At least one measurement is always
// present; a day with neither is never emitted.
type DailyRecord struct {
	StationID    string   `json:"stationId"`
	Date         Date     `json:"date"`
	DischargeM3s *float64 `json:"dischargeM3s,omitempty"`
	LevelM       *float64 `json:"levelM,omitempty"`
	Source       Source   `json:"source"`

	// SampleCount is the number of raw 5-minute samples averaged into this
	// day. Set for realtime-sourced records only.
	SampleCount int `json:"sampleCount,omitempty"`
}

// GapDescriptor describes the unmeasured interval between the end of the
// historical series and the start of the realtime series.
type GapDescriptor struct {
	Exists      bool   `json:"exists"`
	StartDate   Date   `json:"startDate,omitzero"`
	EndDate     Date   `json:"endDate,omitzero"`
	Days        int    `json:"days,omitempty"`
	Description string `json:"description,omitempty"`
}

// SourceAvailability describes the actual coverage one upstream source
// contributed to a combined timeline. A failed source reads "unavailable";
// a reachable source with no records reads "no data".
type SourceAvailability struct {
	Available bool   `json:"available"`
	Range     string `json:"range"`
	Records   int    `json:"records"`
}

// Availability summarizes both sources so the UI can explain missing data
// instead of rendering a silent hole in the chart.
type Availability struct {
	Historical SourceAvailability `json:"historical"`
	Realtime   SourceAvailability `json:"realtime"`
}

// CombinedTimeline is the unified historical + realtime view for a station.
type CombinedTimeline struct {
	StationID    string        `json:"stationId"`
	Records      []DailyRecord `json:"records"`
	Gap          GapDescriptor `json:"gap"`
	Availability Availability  `json:"availability"`
}

// TimelineSnapshot is a combined timeline captured by the background
// refresher, with the time it was fetched.
type TimelineSnapshot struct {
	Timeline  CombinedTimeline `json:"timeline"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// Station is a catalog entry for a gauge station.
type Station struct {
	Number          string   `json:"stationNumber"`
	Name            string   `json:"stationName"`
	Province        string   `json:"province,omitempty"`
	Latitude        float64  `json:"latitude,omitempty"`
	Longitude       float64  `json:"longitude,omitempty"`
	DrainageAreaKm2 *float64 `json:"drainageAreaKm2,omitempty"`
	Status          string   `json:"status,omitempty"`
}
