package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nurye/shop/internal/catalog"
)

// Snapshot represents the latest landing-page data available to the UI.
type Snapshot struct {
	Home                catalog.Home
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the backend has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored home data. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(home catalog.Home, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Home = cloneHome(home)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Home = cloneHome(s.snapshot.Home)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneHome(h catalog.Home) catalog.Home {
	return catalog.Home{
		Banners:    slices.Clone(h.Banners),
		Categories: slices.Clone(h.Categories),
		Products:   slices.Clone(h.Products),
	}
}
