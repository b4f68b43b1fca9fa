package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64

	sweepRuns          int64
	sweepProcessed     int64
	sweepStatusChanges int64
	sweepEscalations   int64
	sweepFailures      int64
}

// SweepTotals is a point-in-time snapshot of the sweep counters.
type SweepTotals struct {
	Runs          int64 `json:"runs"`
	Processed     int64 `json:"processed"`
	StatusChanges int64 `json:"status_changes"`
	Escalations   int64 `json:"escalations"`
	Failures      int64 `json:"failures"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSweep accumulates totals across sweep runs.
func (m *Metrics) RecordSweep(processed, statusChanges, escalations, failures int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepRuns++
	m.sweepProcessed += int64(processed)
	m.sweepStatusChanges += int64(statusChanges)
	m.sweepEscalations += int64(escalations)
	m.sweepFailures += int64(failures)
}

// SweepSnapshot returns cumulative sweep totals.
func (m *Metrics) SweepSnapshot() SweepTotals {
	if m == nil {
		return SweepTotals{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return SweepTotals{
		Runs:          m.sweepRuns,
		Processed:     m.sweepProcessed,
		StatusChanges: m.sweepStatusChanges,
		Escalations:   m.sweepEscalations,
		Failures:      m.sweepFailures,
	}
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
