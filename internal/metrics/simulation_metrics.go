package metrics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ramonehamilton/handsim/internal/simulator"
)

// SimulationMetrics tracks simulation runs. It implements
// simulator.RunObserver.
type SimulationMetrics struct {
	RunLatency *Histogram

	// Counters (atomic operations for thread safety)
	Runs        atomic.Uint64 // completed runs
	Trials      atomic.Uint64 // trials in completed runs
	Rejected    atomic.Uint64 // runs refused for configuration errors
	Cancelled   atomic.Uint64 // runs abandoned through their context
	Errors      atomic.Uint64 // any other failure
	RateLimited atomic.Uint64 // requests refused before reaching the simulator

	runNanos  atomic.Int64
	startTime time.Time
	mu        sync.RWMutex
}

var _ simulator.RunObserver = (*SimulationMetrics)(nil)

// NewSimulationMetrics creates a new metrics collector.
func NewSimulationMetrics() *SimulationMetrics {
	return &SimulationMetrics{
		RunLatency: NewHistogram(10000),
		startTime:  time.Now(),
	}
}

// ObserveRun records the outcome of one run.
func (m *SimulationMetrics) ObserveRun(trials int, elapsed time.Duration, err error) {
	switch {
	case err == nil:
		m.Runs.Add(1)
		m.Trials.Add(uint64(trials))
		m.runNanos.Add(int64(elapsed))
		m.RunLatency.Record(elapsed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		m.Cancelled.Add(1)
	case errors.Is(err, simulator.ErrEmptyDeck),
		errors.Is(err, simulator.ErrInvalidTrials),
		errors.Is(err, simulator.ErrHandTooLarge):
		m.Rejected.Add(1)
	default:
		m.Errors.Add(1)
	}
}

// IncrementRateLimited counts a request refused by the rate limiter.
func (m *SimulationMetrics) IncrementRateLimited() {
	m.RateLimited.Add(1)
}

// SimulationStats contains the computed statistics from metrics.
type SimulationStats struct {
	RunLatency LatencyStats `json:"run_latency"`

	Runs            uint64  `json:"runs"`
	Trials          uint64  `json:"trials"`
	Rejected        uint64  `json:"rejected"`
	Cancelled       uint64  `json:"cancelled"`
	Errors          uint64  `json:"errors"`
	RateLimited     uint64  `json:"rate_limited"`
	TrialsPerSecond float64 `json:"trials_per_second"` // over completed runs

	Uptime string `json:"uptime"` // human-readable uptime
}

// GetStats returns a snapshot of the current statistics.
func (m *SimulationMetrics) GetStats() *SimulationStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trials := m.Trials.Load()
	throughput := 0.0
	if nanos := m.runNanos.Load(); nanos > 0 {
		throughput = float64(trials) / time.Duration(nanos).Seconds()
	}

	return &SimulationStats{
		RunLatency:      m.RunLatency.Snapshot(),
		Runs:            m.Runs.Load(),
		Trials:          trials,
		Rejected:        m.Rejected.Load(),
		Cancelled:       m.Cancelled.Load(),
		Errors:          m.Errors.Load(),
		RateLimited:     m.RateLimited.Load(),
		TrialsPerSecond: throughput,
		Uptime:          time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *SimulationMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RunLatency.Reset()
	m.Runs.Store(0)
	m.Trials.Store(0)
	m.Rejected.Store(0)
	m.Cancelled.Store(0)
	m.Errors.Store(0)
	m.RateLimited.Store(0)
	m.runNanos.Store(0)
	m.startTime = time.Now()
}
