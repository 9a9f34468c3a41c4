package hydro

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStationNotFound is returned when the station catalog has no entry for
// the requested station number.
var ErrStationNotFound = errors.New("station not found")

// FetchError reports that an upstream hydrometric endpoint was unreachable,
// timed out, or answered with a non-success status. Per-record parse
// failures are never a FetchError; they are skipped locally.
type FetchError struct {
	Source    Source
	StationID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch for station %s: %v", e.Source, e.StationID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Sample is a single raw high-frequency measurement from the realtime
// endpoint.
type Sample struct {
	// Day is the calendar date portion of the upstream timestamp exactly as
	// supplied (the station's local reporting convention). Samples are
	// grouped into daily records by this value; no timezone conversion is
	// applied.
	Day          Date
	Timestamp    time.Time
	DischargeM3s *float64
	LevelM       *float64
}

// HistoricalProvider fetches long-run daily-mean records for a station. A
// zero start/end date leaves that bound open. An empty result means the
// station has no historical coverage for the range, not an error.
type HistoricalProvider interface {
	Name() string
	FetchDailyMeans(ctx context.Context, stationID string, start, end Date) ([]DailyRecord, error)
}

// RealtimeProvider fetches the most recent window of high-frequency samples
// for a station. Window length is bounded by the upstream service, typically
// 30 days.
type RealtimeProvider interface {
	Name() string
	FetchSamples(ctx context.Context, stationID string) ([]Sample, error)
}

// StationCatalog looks up gauge station metadata.
type StationCatalog interface {
	ListStations(ctx context.Context, province string, limit int) ([]Station, error)
	GetStation(ctx context.Context, stationID string) (Station, error)
}

// Store is the contract the in-memory snapshot store (and any future
// persistent store) must satisfy.
type Store interface {
	SaveTimeline(stationID string, snapshot TimelineSnapshot)
	GetLatest(stationID string) (TimelineSnapshot, error)
}
