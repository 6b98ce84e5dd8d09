package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor keeps the outcome of the latest run. Partial failures (a skipped
// playlist or video) are counted but do not make the run unhealthy.
type Monitor struct {
	mu              sync.RWMutex
	lastRunSuccess  bool
	lastRunTime     time.Time
	lastSummary     string
	partialFailures int
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// StartRun resets the per-run partial failure count.
func (m *Monitor) StartRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partialFailures = 0
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.lastSummary = summary
	skipped := m.partialFailures
	m.mu.Unlock()

	if skipped > 0 {
		log.Printf("✅ Run completed - %s, %d skipped (took %v)", summary, skipped, duration.Round(time.Millisecond))
		return
	}
	log.Printf("✅ Run completed successfully - %s (took %v)", summary, duration.Round(time.Millisecond))
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.partialFailures++
	m.mu.Unlock()

	log.Printf("⚠️  PARTIAL FAILURE: %s (after %v)", err.Error(), duration.Round(time.Millisecond))
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.lastSummary = err.Error()
	m.mu.Unlock()

	log.Printf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration.Round(time.Millisecond))
}

func (m *Monitor) PartialFailures() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.partialFailures
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // no runs yet
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last run: %s - %s", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
	}
	return fmt.Sprintf("❌ Last run failed: %s - %s", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
}
