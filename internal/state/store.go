package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

// Snapshot represents the latest feed data available to the UI: the global
// recipe collection and the followed-users collection, fetched wholesale.
type Snapshot struct {
	All                 []recipeshare.Recipe
	Following           []recipeshare.Recipe
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the API has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. The background
// refresher writes; the UI reads. Collections are replaced wholesale on
// every successful refresh - there is no incremental merge.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces both stored collections. When err is non-nil the previous
// data is kept and the error is recorded for visibility, so a failed fetch
// leaves the view stale but consistent.
func (s *Store) Update(all, following []recipeshare.Recipe, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.All = cloneRecipes(all)
	s.snapshot.Following = cloneRecipes(following)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Reset discards all data, returning the store to its initial state.
// Used on sign-out so the next user never sees the previous user's feeds.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.All = cloneRecipes(s.snapshot.All)
	snap.Following = cloneRecipes(s.snapshot.Following)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecipes(recipes []recipeshare.Recipe) []recipeshare.Recipe {
	if len(recipes) == 0 {
		return nil
	}
	dup := make([]recipeshare.Recipe, len(recipes))
	copy(dup, recipes)
	return dup
}
