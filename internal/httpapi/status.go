package httpapi

import (
	"sync"
	"time"

	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/weather"
)

// Snapshot is a copy of the loop state taken at the end of a tick.
type Snapshot struct {
	State          string                 `json:"state"`
	ScrollOffset   int                    `json:"scroll_offset"`
	Local          sensor.Reading         `json:"local"`
	Remote         *weather.RemoteWeather `json:"remote,omitempty"`
	Location       string                 `json:"location"`
	LastFetchAt    time.Time              `json:"last_fetch_at,omitzero"`
	LastFetchError string                 `json:"last_fetch_error,omitempty"`
	Refreshes      uint64                 `json:"refreshes"`
	UpdatedAt      time.Time              `json:"updated_at,omitzero"`
}

// Status hands snapshots from the loop to HTTP handlers.
type Status struct {
	mu   sync.RWMutex
	snap Snapshot
}

func (s *Status) Set(snap Snapshot) {
	if snap.Remote != nil {
		r := *snap.Remote
		snap.Remote = &r
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Status) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
