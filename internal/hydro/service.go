package hydro

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JeyzDFoo/brownclaw/internal/observability"
)

// TimelineOptions bounds the historical window of a combined timeline. Zero
// dates leave the corresponding bound open, yielding the station's full
// record.
type TimelineOptions struct {
	Start Date
	End   Date
}

// Service builds combined timelines from the two upstream hydrometric
// sources and keeps refreshed snapshots for tracked stations.
type Service struct {
	historical HistoricalProvider
	realtime   RealtimeProvider
	store      Store
	logger     *logrus.Logger
	metrics    *observability.Metrics
}

// NewService creates a new Service.
func NewService(historical HistoricalProvider, realtime RealtimeProvider, store Store, logger *logrus.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		historical: historical,
		realtime:   realtime,
		store:      store,
		logger:     logger,
		metrics:    metrics,
	}
}

// GetCombinedTimeline assembles the unified historical + realtime view for a
// station. The two fetches run concurrently and share no mutable state; each
// owns its own result slot and the WaitGroup is the only synchronization.
// The call fails only when both sources fail. A single failed source yields
// a successful response built from the surviving source, with availability
// marking the other "unavailable".
func (s *Service) GetCombinedTimeline(ctx context.Context, stationID string, opts TimelineOptions) (*CombinedTimeline, error) {
	var (
		wg         sync.WaitGroup
		historical []DailyRecord
		histErr    error
		samples    []Sample
		rtErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		historical, histErr = s.historical.FetchDailyMeans(ctx, stationID, opts.Start, opts.End)
	}()
	go func() {
		defer wg.Done()
		samples, rtErr = s.realtime.FetchSamples(ctx, stationID)
	}()
	wg.Wait()

	if histErr != nil && rtErr != nil {
		return nil, fmt.Errorf("no hydrometric source available for station %s: historical: %v; realtime: %v", stationID, histErr, rtErr)
	}
	if histErr != nil {
		s.logger.WithError(histErr).WithField("station", stationID).Warn("historical fetch failed; serving realtime only")
	}
	if rtErr != nil {
		s.logger.WithError(rtErr).WithField("station", stationID).Warn("realtime fetch failed; serving historical only")
	}

	realtime := AggregateSamples(stationID, samples)
	gap := ReconcileGap(historical, realtime)
	records := MergeTimelines(historical, realtime)

	timeline := &CombinedTimeline{
		StationID: stationID,
		Records:   records,
		Gap:       gap,
		Availability: Availability{
			Historical: summarizeSource(historical, histErr),
			Realtime:   summarizeSource(realtime, rtErr),
		},
	}

	s.metrics.TimelinesBuilt.Inc()
	if gap.Exists {
		s.metrics.GapDaysObserved.Observe(float64(gap.Days))
	}

	s.logger.WithFields(logrus.Fields{
		"station":    stationID,
		"records":    len(records),
		"historical": len(historical),
		"realtime":   len(realtime),
		"gap_days":   gap.Days,
	}).Debug("combined timeline built")

	return timeline, nil
}

// RefreshStation rebuilds a station's combined timeline and stores it as the
// latest snapshot.
func (s *Service) RefreshStation(ctx context.Context, stationID string) error {
	timeline, err := s.GetCombinedTimeline(ctx, stationID, TimelineOptions{})
	if err != nil {
		return err
	}

	s.store.SaveTimeline(stationID, TimelineSnapshot{
		Timeline:  *timeline,
		FetchedAt: time.Now().UTC(),
	})
	return nil
}

// GetLatest returns the most recently refreshed snapshot for a station.
func (s *Service) GetLatest(stationID string) (TimelineSnapshot, error) {
	return s.store.GetLatest(stationID)
}

// summarizeSource renders one source's contribution for the availability
// block. A fetch failure reads "unavailable"; a reachable source with no
// records reads "no data".
func summarizeSource(records []DailyRecord, fetchErr error) SourceAvailability {
	if fetchErr != nil {
		return SourceAvailability{Available: false, Range: "unavailable"}
	}
	if len(records) == 0 {
		return SourceAvailability{Available: true, Range: "no data"}
	}
	return SourceAvailability{
		Available: true,
		Range:     fmt.Sprintf("%s to %s", records[0].Date, records[len(records)-1].Date),
		Records:   len(records),
	}
}
