package exposition

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
)

// Entry is one network's observations together with the time they were
// last collected.
type Entry struct {
	Key          string
	Observations []catalog.Observation
	UpdatedAt    time.Time
}

// Store is a thread-safe in-memory snapshot store, keyed by network id.
// Entries not refreshed within the TTL are hidden from Snapshot and removed
// by the background eviction loop (Run). Status observations are kept apart
// and never expire.
type Store struct {
	mu     sync.RWMutex
	data   map[string]*Entry
	status []catalog.Observation
	ttl    time.Duration
	now    func() time.Time // injectable for deterministic tests
}

// NewStore creates a Store with the given TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the staleness window.
func (s *Store) TTL() time.Duration { return s.ttl }

// Put stores or replaces the observations for key.
// Callers must not modify obs after calling Put.
func (s *Store) Put(key string, obs []catalog.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = &Entry{
		Key:          key,
		Observations: obs,
		UpdatedAt:    s.now(),
	}
}

// Retain drops every entry whose key is not in keep. The collector calls it
// after a successful pass so networks removed from the account disappear
// immediately rather than at TTL.
func (s *Store) Retain(keep []string) int {
	want := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		want[k] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k := range s.data {
		if _, ok := want[k]; !ok {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

// SetStatus replaces the exporter's own status observations.
func (s *Store) SetStatus(obs []catalog.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = obs
}

// Get returns the entry for key. The entry may be stale if the TTL has
// elapsed but eviction has not yet run.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	return e, ok
}

// Snapshot returns the observations of every live entry, ordered by key,
// followed by the status observations.
func (s *Store) Snapshot() []catalog.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-s.ttl)
	keys := make([]string, 0, len(s.data))
	for k, e := range s.data {
		if e.UpdatedAt.After(cutoff) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []catalog.Observation
	for _, k := range keys {
		out = append(out, s.data[k].Observations...)
	}
	return append(out, s.status...)
}

// Count returns the number of entries held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL and
// returns how many were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for k, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

// Run starts the background eviction loop, ticking at half the TTL (minimum
// one second). It blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Info("exposition: evicted stale networks", "count", n, "remaining", s.Count())
			}
		}
	}
}
