package store

import (
	"errors"
	"sync"
	"time"

	"github.com/JeyzDFoo/brownclaw/internal/hydro"
)

var (
	// ErrNotFound is returned when no snapshot is available for a station.
	ErrNotFound = errors.New("no timeline snapshot for station")
)

// snapshotHistory holds a time-ordered list of refresh snapshots for one
// station.
type snapshotHistory struct {
	snapshots []hydro.TimelineSnapshot
}

// MemoryStore is a concurrency-safe in-memory store of refreshed timeline
// snapshots, keyed by station number.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]*snapshotHistory

	// retention configuration
	maxHistory int           // max number of snapshots per station
	maxAge     time.Duration // optional max age for snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*snapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveTimeline appends a new snapshot for a station and enforces retention.
func (s *MemoryStore) SaveTimeline(stationID string, snapshot hydro.TimelineSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[stationID]
	if !ok {
		history = &snapshotHistory{}
		s.data[stationID] = history
	}

	history.snapshots = append(history.snapshots, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.snapshots) > s.maxHistory {
		over := len(history.snapshots) - s.maxHistory
		history.snapshots = history.snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.snapshots); i++ {
			if !history.snapshots[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.snapshots) {
			history.snapshots = history.snapshots[i:]
		}
	}
}

// GetLatest returns the most recent snapshot for a station.
func (s *MemoryStore) GetLatest(stationID string) (hydro.TimelineSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[stationID]
	if !ok || len(history.snapshots) == 0 {
		return hydro.TimelineSnapshot{}, ErrNotFound
	}
	return history.snapshots[len(history.snapshots)-1], nil
}
