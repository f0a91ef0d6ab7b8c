package ops

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitorHealthyBeforeFirstCycle(t *testing.T) {
	m := NewMonitor()
	assert.True(t, m.Healthy())
}

func TestMonitorHealthTracksLastOutcome(t *testing.T) {
	m := NewMonitor()

	m.RecordCycle(OutcomeSuccess, nil, time.Second, time.Now())
	assert.True(t, m.Healthy())

	m.RecordCycle(OutcomeFailed, errors.New("fetch failed, nothing cached"), time.Second, time.Time{})
	assert.False(t, m.Healthy())

	m.RecordCycle(OutcomeDegraded, errors.New("1 of 3 display pushes failed"), time.Second, time.Now())
	assert.True(t, m.Healthy(), "degraded still shows data, so stays healthy")

	m.RecordCycle(OutcomeSuccess, nil, time.Second, time.Now())
	assert.True(t, m.Healthy())
}

func TestStatusBeforeFirstCycle(t *testing.T) {
	m := NewMonitor()

	st := m.Status()
	assert.Equal(t, "idle", st.State)
	assert.EqualValues(t, 0, st.Cycles)
	assert.Empty(t, st.LastOutcome)
	assert.Empty(t, st.SnapshotAt)
	assert.NotEmpty(t, st.Uptime)
}

func TestStatusAfterCycles(t *testing.T) {
	m := NewMonitor()
	m.SetState("fetching")

	fetchedAt := time.Now().Add(-2 * time.Minute)
	m.RecordCycle(OutcomeDegraded, errors.New("weather fetch (network): timeout"), 1200*time.Millisecond, fetchedAt)

	st := m.Status()
	assert.Equal(t, "fetching", st.State)
	assert.EqualValues(t, 1, st.Cycles)
	assert.Equal(t, "degraded", st.LastOutcome)
	assert.Contains(t, st.LastError, "network")
	assert.NotEmpty(t, st.LastCycleAt)
	assert.Equal(t, "1.2s", st.LastDuration)
	assert.NotEmpty(t, st.SnapshotAt)
	assert.NotEmpty(t, st.SnapshotAge)
}

func TestStatusOmitsSnapshotWhenNoneShown(t *testing.T) {
	m := NewMonitor()
	m.RecordCycle(OutcomeFailed, errors.New("no data"), time.Second, time.Time{})

	st := m.Status()
	assert.Equal(t, "failed", st.LastOutcome)
	assert.Empty(t, st.SnapshotAt)
	assert.Empty(t, st.SnapshotAge)
}
