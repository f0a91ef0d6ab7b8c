package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dannybellieveit/weather-display/internal/config"
	"github.com/dannybellieveit/weather-display/internal/display"
	"github.com/dannybellieveit/weather-display/internal/ops"
	"github.com/dannybellieveit/weather-display/internal/render"
	"github.com/dannybellieveit/weather-display/internal/weather"
)

// stubFetcher returns a canned snapshot or error and records when each
// call happened on the mock clock.
type stubFetcher struct {
	mu      sync.Mutex
	clock   *clock.Mock
	snap    *weather.Snapshot
	err     error
	calls   []time.Time
	onFetch func()
}

func (f *stubFetcher) Fetch(ctx context.Context, loc weather.Location) (*weather.Snapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, f.clock.Now())
	snap, err, hook := f.snap, f.err, f.onFetch
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return snap, err
}

func (f *stubFetcher) set(snap *weather.Snapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
	f.err = err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *stubFetcher) callTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, len(f.calls))
	copy(out, f.calls)
	return out
}

type stubStore struct {
	mu      sync.Mutex
	loaded  *weather.Snapshot
	loadErr error
	saveErr error
	saved   []*weather.Snapshot
}

func (s *stubStore) Save(snap *weather.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, snap)
	return nil
}

func (s *stubStore) Load() (*weather.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded, s.loadErr
}

func (s *stubStore) savedSnaps() []*weather.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*weather.Snapshot, len(s.saved))
	copy(out, s.saved)
	return out
}

func fptr(v float64) *float64 { return &v }

func testSnapshot(fetchedAt time.Time) *weather.Snapshot {
	return &weather.Snapshot{
		TemperatureC:     15.2,
		Code:             2,
		FeelsLikeC:       fptr(14.1),
		HighC:            fptr(17),
		LowC:             fptr(9),
		HumidityPct:      fptr(70),
		WindSpeedKmh:     fptr(12),
		WindDirectionDeg: fptr(315),
		UVIndex:          fptr(3.4),
		Sunrise:          time.Date(2026, 8, 26, 6, 42, 0, 0, time.UTC),
		Sunset:           time.Date(2026, 8, 26, 20, 15, 0, 0, time.UTC),
		FetchedAt:        fetchedAt,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Station: config.StationConfig{Latitude: 51.4279, Longitude: -0.1255, Name: "Streatham"},
		Weather: config.WeatherConfig{
			BaseURL:        weather.DefaultBaseURL,
			RefreshSeconds: 300,
			RepaintSeconds: 30,
			TimeoutSeconds: 10,
		},
		Display: config.DisplayConfig{Driver: "console", MainBacklight: 90, SideBacklight: 45},
	}
}

type fixture struct {
	sched   *Scheduler
	fetcher *stubFetcher
	rec     *display.Recorder
	store   *stubStore
	clock   *clock.Mock
	cfg     *config.Config
	set     *render.Set
	snap    *weather.Snapshot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 26, 11, 30, 0, 0, time.UTC))
	cfg := testConfig()
	snap := testSnapshot(mock.Now())
	fetcher := &stubFetcher{clock: mock, snap: snap}
	rec := display.NewRecorder()
	store := &stubStore{}

	set, err := render.NewSet(cfg.Station.Name)
	require.NoError(t, err)
	panels := []Panel{
		{ID: display.Main, Renderer: set.Main, Backlight: cfg.Display.MainBacklight},
		{ID: display.Left, Renderer: set.Left, Backlight: cfg.Display.SideBacklight},
		{ID: display.Right, Renderer: set.Right, Backlight: cfg.Display.SideBacklight},
	}

	sched := New(cfg, fetcher, panels, rec, store, mock, zap.NewNop())
	return &fixture{sched: sched, fetcher: fetcher, rec: rec, store: store, clock: mock, cfg: cfg, set: set, snap: snap}
}

func TestRunOnceSuccess(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sched.RunOnce(context.Background()))

	assert.Equal(t, 1, f.rec.PushCount(display.Main))
	assert.Equal(t, 1, f.rec.PushCount(display.Left))
	assert.Equal(t, 1, f.rec.PushCount(display.Right))
	assert.Equal(t, []int{90}, f.rec.Backlights(display.Main))
	assert.Equal(t, []int{45}, f.rec.Backlights(display.Left))
	assert.Equal(t, []int{45}, f.rec.Backlights(display.Right))

	st := f.sched.Monitor().Status()
	assert.Equal(t, string(ops.OutcomeSuccess), st.LastOutcome)
	assert.Equal(t, uint64(1), st.Cycles)
	assert.Equal(t, "idle", st.State)
	assert.True(t, f.sched.Monitor().Healthy())
}

func TestRunOnceFramesMatchRenderers(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sched.RunOnce(context.Background()))

	view := render.View{Now: f.clock.Now(), Online: true}
	want := f.set.Main.Render(f.snap, view)
	got := f.rec.PushesFor(display.Main)
	require.Len(t, got, 1)
	assert.Equal(t, want.Pix, got[0].Pix)

	wantLeft := f.set.Left.Render(f.snap, view)
	assert.Equal(t, wantLeft.Pix, f.rec.PushesFor(display.Left)[0].Pix)
}

func TestFetchFailureWithoutCacheSkipsPaint(t *testing.T) {
	f := newFixture(t)
	f.fetcher.set(nil, &weather.FetchError{Cause: weather.CauseBadStatus, Err: errors.New("weather API returned status 500")})

	err := f.sched.RunOnce(context.Background())
	require.Error(t, err)

	assert.Zero(t, f.rec.TotalPushes())
	assert.Empty(t, f.rec.Backlights(display.Main))
	assert.Empty(t, f.store.savedSnaps())
	assert.False(t, f.sched.Monitor().Healthy())
	assert.Equal(t, string(ops.OutcomeFailed), f.sched.Monitor().Status().LastOutcome)
}

func TestFetchFailureReusesCachedSnapshot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sched.RunOnce(context.Background()))

	f.fetcher.set(nil, errors.New("connection refused"))
	err := f.sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cached")

	// The second paint came from the cache and is marked offline.
	require.Equal(t, 2, f.rec.PushCount(display.Main))
	view := render.View{Now: f.clock.Now(), Online: false}
	want := f.set.Main.Render(f.snap, view)
	assert.Equal(t, want.Pix, f.rec.PushesFor(display.Main)[1].Pix)

	assert.Equal(t, string(ops.OutcomeDegraded), f.sched.Monitor().Status().LastOutcome)
	assert.True(t, f.sched.Monitor().Healthy())
}

func TestDisplayFailureIsolatedPerPanel(t *testing.T) {
	f := newFixture(t)
	f.rec.FailPush(display.Left, errors.New("spi write failed"))

	err := f.sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")

	assert.Equal(t, 1, f.rec.PushCount(display.Main))
	assert.Zero(t, f.rec.PushCount(display.Left))
	assert.Equal(t, 1, f.rec.PushCount(display.Right))
	assert.Equal(t, string(ops.OutcomeDegraded), f.sched.Monitor().Status().LastOutcome)
	assert.True(t, f.sched.Monitor().Healthy())
}

func TestBacklightProgrammedOnceUntilPushFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sched.RunOnce(context.Background()))
	require.NoError(t, f.sched.RunOnce(context.Background()))
	assert.Equal(t, []int{90}, f.rec.Backlights(display.Main))

	// A failed push means the panel may have been power cycled, so the
	// brightness is programmed again once pushes succeed.
	f.rec.FailPush(display.Main, errors.New("panel unplugged"))
	require.Error(t, f.sched.RunOnce(context.Background()))
	f.rec.FailPush(display.Main, nil)

	require.NoError(t, f.sched.RunOnce(context.Background()))
	assert.Equal(t, []int{90, 90}, f.rec.Backlights(display.Main))
	assert.Equal(t, []int{45}, f.rec.Backlights(display.Left))
}

func TestBacklightFailureStillPushesFrame(t *testing.T) {
	f := newFixture(t)
	f.rec.FailBacklight(display.Main, errors.New("pwm unavailable"))

	err := f.sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	assert.Equal(t, 1, f.rec.PushCount(display.Main))
	assert.Empty(t, f.rec.Backlights(display.Main))

	f.rec.FailBacklight(display.Main, nil)
	require.NoError(t, f.sched.RunOnce(context.Background()))
	assert.Equal(t, []int{90}, f.rec.Backlights(display.Main))
}

func TestSnapshotPersistedOnSuccessfulFetch(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.sched.RunOnce(context.Background()))

	saved := f.store.savedSnaps()
	require.Len(t, saved, 1)
	assert.Equal(t, f.snap, saved[0])
}

func TestStoreFailuresAreTolerated(t *testing.T) {
	f := newFixture(t)
	f.store.saveErr = errors.New("disk full")
	assert.NoError(t, f.sched.RunOnce(context.Background()))

	f2 := newFixture(t)
	f2.store.loadErr = errors.New("corrupt file")
	f2.sched.Initialize()
	assert.NoError(t, f2.sched.RunOnce(context.Background()))
}

func TestInitializeRestoresPersistedSnapshot(t *testing.T) {
	f := newFixture(t)
	cached := testSnapshot(f.clock.Now().Add(-10 * time.Minute))
	f.store.loaded = cached
	f.sched.Initialize()

	// A failed first fetch paints the restored snapshot instead of
	// leaving the panels blank.
	f.fetcher.set(nil, errors.New("unreachable"))
	err := f.sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, string(ops.OutcomeDegraded), f.sched.Monitor().Status().LastOutcome)
	require.Equal(t, 1, f.rec.PushCount(display.Main))

	view := render.View{Now: f.clock.Now(), Online: false}
	want := f.set.Main.Render(cached, view)
	assert.Equal(t, want.Pix, f.rec.PushesFor(display.Main)[0].Pix)
}

func TestCycleDurationMeasuredByClock(t *testing.T) {
	f := newFixture(t)
	f.fetcher.onFetch = func() { f.clock.Add(4 * time.Second) }

	require.NoError(t, f.sched.RunOnce(context.Background()))

	assert.Equal(t, "4s", f.sched.Monitor().Status().LastDuration)
}

func TestRunKeepsFixedCadence(t *testing.T) {
	f := newFixture(t)
	f.cfg.Weather.RepaintSeconds = 0
	f.fetcher.onFetch = func() { f.clock.Add(4 * time.Second) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f.sched.Run(ctx) }()

	// Wait for the whole first cycle so its 4s of simulated work is on
	// the clock before we advance it ourselves.
	require.Eventually(t, func() bool { return f.rec.TotalPushes() == 3 },
		time.Second, time.Millisecond)
	require.Equal(t, 1, f.fetcher.callCount())

	// 295s later the next cycle is still 1s away: starts are one
	// interval apart no matter how long the work took.
	f.clock.Add(295 * time.Second)
	assert.Never(t, func() bool { return f.fetcher.callCount() > 1 },
		100*time.Millisecond, 10*time.Millisecond)

	f.clock.Add(1 * time.Second)
	require.Eventually(t, func() bool { return f.fetcher.callCount() == 2 },
		time.Second, time.Millisecond)

	calls := f.fetcher.callTimes()
	assert.Equal(t, 300*time.Second, calls[1].Sub(calls[0]))

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRunRepaintsBetweenCycles(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f.sched.Run(ctx) }()

	require.Eventually(t, func() bool { return f.rec.TotalPushes() == 3 },
		time.Second, time.Millisecond)

	// Half a minute on, the clock row needs redrawing. No fetch.
	f.clock.Add(30 * time.Second)
	require.Eventually(t, func() bool { return f.rec.TotalPushes() == 6 },
		time.Second, time.Millisecond)
	assert.Equal(t, 1, f.fetcher.callCount())

	cancel()
	<-done
}

func TestRepaintWithoutDataShowsPlaceholders(t *testing.T) {
	f := newFixture(t)
	f.fetcher.set(nil, errors.New("offline"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f.sched.Run(ctx) }()

	require.Eventually(t, func() bool { return f.fetcher.callCount() == 1 },
		time.Second, time.Millisecond)
	assert.Zero(t, f.rec.TotalPushes())

	f.clock.Add(30 * time.Second)
	require.Eventually(t, func() bool { return f.rec.TotalPushes() == 3 },
		time.Second, time.Millisecond)

	view := render.View{Now: f.clock.Now(), Online: false}
	want := f.set.Main.Render(nil, view)
	assert.Equal(t, want.Pix, f.rec.PushesFor(display.Main)[0].Pix)

	cancel()
	<-done
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sched.Run(ctx) }()

	require.Eventually(t, func() bool { return f.fetcher.callCount() == 1 },
		time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
