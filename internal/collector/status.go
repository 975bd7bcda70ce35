package collector

import (
	"sync"
	"time"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
)

// historyWindow is the number of recent pass outcomes tracked for the
// success ratio.
const historyWindow = 20

// status is the exporter's view of its own recent passes.
//
// All methods are safe for concurrent use.
type status struct {
	mu            sync.Mutex
	success       bool
	duration      time.Duration
	lastCollected time.Time
	authRequired  bool
	warnings      int
	networks      int
	history       []bool // circular buffer of pass outcomes, newest last
}

func (s *status) record(ok bool) {
	if len(s.history) >= historyWindow {
		s.history = s.history[1:]
	}
	s.history = append(s.history, ok)
}

func (s *status) ratio() float64 {
	if len(s.history) == 0 {
		return 1 // assume healthy before the first pass
	}
	var ok int
	for _, h := range s.history {
		if h {
			ok++
		}
	}
	return float64(ok) / float64(len(s.history))
}

// succeeded records a completed pass.
func (s *status) succeeded(at time.Time, took time.Duration, networks, warnings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = true
	s.duration = took
	s.lastCollected = at
	s.authRequired = false
	s.networks = networks
	s.warnings = warnings
	s.record(true)
}

// failed records an aborted pass. The previous networks/warnings counts and
// the last success time are kept; they describe the data still being served.
func (s *status) failed(took time.Duration, authRequired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = false
	s.duration = took
	if authRequired {
		s.authRequired = true
	}
	s.record(false)
}

func (s *status) clearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authRequired = false
}

func (s *status) needsAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authRequired
}

// observations renders the status as self metrics.
func (s *status) observations() []catalog.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last float64
	if !s.lastCollected.IsZero() {
		last = float64(s.lastCollected.Unix())
	}
	return []catalog.Observation{
		catalog.ExporterCollectionSuccess.Gauge(nil, boolValue(s.success)),
		catalog.ExporterSuccessRatio.Gauge(nil, s.ratio()),
		catalog.ExporterCollectionDuration.Gauge(nil, s.duration.Seconds()),
		catalog.ExporterLastCollection.Gauge(nil, last),
		catalog.ExporterAuthRequired.Gauge(nil, boolValue(s.authRequired)),
		catalog.ExporterMappingWarnings.Gauge(nil, float64(s.warnings)),
		catalog.ExporterNetworks.Gauge(nil, float64(s.networks)),
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
