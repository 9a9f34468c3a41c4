package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/JeyzDFoo/brownclaw/internal/hydro"
)

// Scheduler periodically refreshes combined-timeline snapshots for the
// tracked stations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *hydro.Service
	stations  []string
	interval  time.Duration
	timeout   time.Duration
	logger    *logrus.Logger
}

// New creates a new Scheduler. timeout bounds each station refresh.
func New(stations []string, interval, timeout time.Duration, service *hydro.Service, logger *logrus.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		stations:  stations,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler. The job also runs once at startup so tracked stations have a
// snapshot before the first interval elapses.
func (s *Scheduler) Start() error {
	if len(s.stations) == 0 {
		s.logger.Info("scheduler: no tracked stations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		s.logger.WithField("stations", len(s.stations)).Info("scheduler: refreshing tracked stations")

		var wg sync.WaitGroup
		for _, stationID := range s.stations {
			stationID := stationID
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
				defer cancel()

				if err := s.service.RefreshStation(ctx, stationID); err != nil {
					s.logger.WithError(err).WithField("station", stationID).Warn("scheduler: refresh failed")
				}
			}()
		}
		wg.Wait()
		s.logger.Info("scheduler: refresh completed")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
