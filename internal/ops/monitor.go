// Package ops exposes appliance health over HTTP: a liveness check, a
// JSON status document and Prometheus metrics.
package ops

import (
	"sync"
	"time"
)

// Outcome classifies a finished refresh cycle.
type Outcome string

const (
	// OutcomeSuccess: fresh data fetched and every panel updated.
	OutcomeSuccess Outcome = "success"
	// OutcomeDegraded: the panels show something, but the fetch failed
	// (cached data shown) or at least one panel push failed.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFailed: nothing could be shown this cycle.
	OutcomeFailed Outcome = "failed"
)

// Monitor tracks health across cycles. It is the one piece of scheduler
// state read from another goroutine, so it carries its own lock.
type Monitor struct {
	mu sync.RWMutex

	startedAt    time.Time
	state        string
	cycles       uint64
	lastOutcome  Outcome
	lastError    string
	lastCycleAt  time.Time
	lastDuration time.Duration
	snapshotAt   time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{startedAt: time.Now(), state: "idle"}
}

// SetState records the scheduler's current phase for /status.
func (m *Monitor) SetState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// RecordCycle records one finished cycle. snapshotAt is the fetch time
// of whatever the panels now show, zero when they show placeholders.
func (m *Monitor) RecordCycle(outcome Outcome, err error, duration time.Duration, snapshotAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles++
	m.lastOutcome = outcome
	m.lastError = ""
	if err != nil {
		m.lastError = err.Error()
	}
	m.lastCycleAt = time.Now()
	m.lastDuration = duration
	m.snapshotAt = snapshotAt
}

// Healthy reports liveness: healthy until the first cycle finishes,
// then healthy as long as the last cycle was not a total failure. A
// degraded cycle still counts as healthy because the panels are
// showing data.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cycles == 0 {
		return true
	}
	return m.lastOutcome != OutcomeFailed
}

// Status is the document served on /status.
type Status struct {
	State        string `json:"state"`
	Uptime       string `json:"uptime"`
	Cycles       uint64 `json:"cycles"`
	LastOutcome  string `json:"last_outcome,omitempty"`
	LastError    string `json:"last_error,omitempty"`
	LastCycleAt  string `json:"last_cycle_at,omitempty"`
	LastDuration string `json:"last_duration,omitempty"`
	SnapshotAt   string `json:"snapshot_at,omitempty"`
	SnapshotAge  string `json:"snapshot_age,omitempty"`
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Status{
		State:  m.state,
		Uptime: time.Since(m.startedAt).Round(time.Second).String(),
		Cycles: m.cycles,
	}
	if m.cycles > 0 {
		st.LastOutcome = string(m.lastOutcome)
		st.LastError = m.lastError
		st.LastCycleAt = m.lastCycleAt.Format(time.RFC3339)
		st.LastDuration = m.lastDuration.Round(time.Millisecond).String()
	}
	if !m.snapshotAt.IsZero() {
		st.SnapshotAt = m.snapshotAt.Format(time.RFC3339)
		st.SnapshotAge = time.Since(m.snapshotAt).Round(time.Second).String()
	}
	return st
}
