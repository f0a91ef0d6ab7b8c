// Package scheduler drives the appliance loop: fetch the weather on a
// fixed cadence, render every panel, push the frames, and keep the
// clock ticking with cheap repaints in between.
//
// All mutable state lives on the loop goroutine. The monitor is the
// only thing other goroutines read, and it carries its own lock.
package scheduler

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/dannybellieveit/weather-display/internal/config"
	"github.com/dannybellieveit/weather-display/internal/display"
	"github.com/dannybellieveit/weather-display/internal/ops"
	"github.com/dannybellieveit/weather-display/internal/render"
	"github.com/dannybellieveit/weather-display/internal/weather"
)

// State names the scheduler's phase within a cycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRendering
	StatePushing
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateRendering:
		return "rendering"
	case StatePushing:
		return "pushing"
	default:
		return "idle"
	}
}

// Fetcher obtains a fresh weather snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, loc weather.Location) (*weather.Snapshot, error)
}

// Store persists the last good snapshot across restarts. A nil store
// disables persistence.
type Store interface {
	Save(snap *weather.Snapshot) error
	Load() (*weather.Snapshot, error)
}

// Renderer draws one panel's frame. A nil snapshot must produce the
// panel's placeholder frame, never a crash.
type Renderer interface {
	Render(snap *weather.Snapshot, view render.View) *image.RGBA
}

// Panel binds a renderer to one physical display and its brightness.
type Panel struct {
	ID        display.ID
	Renderer  Renderer
	Backlight int
}

// Scheduler owns the fetch-render-push loop.
type Scheduler struct {
	cfg     *config.Config
	fetcher Fetcher
	panels  []Panel
	driver  display.Driver
	store   Store
	monitor *ops.Monitor
	clock   clock.Clock
	logger  *zap.Logger

	location weather.Location

	current *weather.Snapshot
	online  bool
	cycle   uint64

	// backlightSet tracks which panels have a programmed backlight.
	// A failed push clears the panel's entry so the brightness is
	// reprogrammed once the hardware answers again.
	backlightSet map[display.ID]bool
}

// New assembles a scheduler. A nil clk selects the wall clock; a nil
// store disables snapshot persistence.
func New(cfg *config.Config, fetcher Fetcher, panels []Panel, driver display.Driver, store Store, clk clock.Clock, logger *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		panels:  panels,
		driver:  driver,
		store:   store,
		monitor: ops.NewMonitor(),
		clock:   clk,
		logger:  logger,
		location: weather.Location{
			Latitude:  cfg.Station.Latitude,
			Longitude: cfg.Station.Longitude,
		},
		backlightSet: make(map[display.ID]bool),
	}
}

// Monitor exposes the health monitor for the ops server.
func (s *Scheduler) Monitor() *ops.Monitor { return s.monitor }

// Initialize restores the persisted snapshot so the first paint after a
// restart shows real data instead of placeholders. A missing or broken
// store never blocks startup.
func (s *Scheduler) Initialize() {
	if s.store == nil {
		return
	}
	snap, err := s.store.Load()
	if err != nil {
		s.logger.Warn("Failed to load cached snapshot", zap.Error(err))
		return
	}
	if snap != nil {
		s.current = snap
		s.logger.Info("Restored cached snapshot", zap.Time("fetched_at", snap.FetchedAt))
	}
}

// Run drives cycles until ctx is cancelled and returns ctx.Err(). The
// interval timer is armed when a cycle starts, not when it ends, so
// the distance between cycle starts stays at the refresh interval no
// matter how long a cycle takes. A cycle that overruns the interval is
// followed by the next one immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	cycleTimer := s.clock.Timer(s.cfg.RefreshInterval())
	defer cycleTimer.Stop()

	var repaintC <-chan time.Time
	if interval := s.cfg.RepaintInterval(); interval > 0 {
		repaintTicker := s.clock.Ticker(interval)
		defer repaintTicker.Stop()
		repaintC = repaintTicker.C
	}

	s.logger.Info("Scheduler started",
		zap.Duration("refresh_interval", s.cfg.RefreshInterval()),
		zap.Duration("repaint_interval", s.cfg.RepaintInterval()))

	// First cycle right away; the timer armed above keeps the second
	// cycle exactly one interval after this one.
	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return ctx.Err()
		case <-cycleTimer.C:
			cycleTimer.Reset(s.cfg.RefreshInterval())
			s.runCycle(ctx)
		case <-repaintC:
			s.repaint()
		}
	}
}

// RunOnce performs a single cycle, for --once invocations. The returned
// error reflects the cycle outcome: nil on success, the degradation or
// failure otherwise.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

func (s *Scheduler) runCycle(ctx context.Context) error {
	start := s.clock.Now()
	s.cycle++
	cycleLog := s.logger.With(zap.Uint64("cycle", s.cycle))

	s.setState(StateFetching)
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout())
	snap, fetchErr := s.fetcher.Fetch(fetchCtx, s.location)
	cancel()

	if fetchErr != nil {
		s.online = false
		cause := weather.Cause(fetchErr)
		ops.FetchFailures.WithLabelValues(string(cause)).Inc()
		cycleLog.Warn("Weather fetch failed",
			zap.String("cause", string(cause)),
			zap.Error(fetchErr))
		if s.current == nil {
			// Nothing to show yet. Leave the panels alone rather
			// than pushing placeholders every failed cycle.
			return s.finishCycle(cycleLog, start, ops.OutcomeFailed,
				fmt.Errorf("fetch failed with no cached snapshot: %w", fetchErr))
		}
	} else {
		s.online = true
		s.current = snap
		cycleLog.Info("Weather fetched",
			zap.Float64("temperature_c", snap.TemperatureC),
			zap.String("condition", snap.Code.Label()))
		if s.store != nil {
			if err := s.store.Save(snap); err != nil {
				cycleLog.Warn("Failed to persist snapshot", zap.Error(err))
			}
		}
	}

	pushFailures := s.paint(cycleLog)

	switch {
	case fetchErr != nil:
		return s.finishCycle(cycleLog, start, ops.OutcomeDegraded,
			fmt.Errorf("showing cached snapshot: %w", fetchErr))
	case pushFailures > 0:
		return s.finishCycle(cycleLog, start, ops.OutcomeDegraded,
			fmt.Errorf("%d of %d display pushes failed", pushFailures, len(s.panels)))
	default:
		return s.finishCycle(cycleLog, start, ops.OutcomeSuccess, nil)
	}
}

// repaint refreshes every panel from the cached snapshot without
// fetching, so the clock stays right between cycles.
func (s *Scheduler) repaint() {
	s.paint(s.logger)
	s.setState(StateIdle)
}

// paint renders every panel and pushes the frames. Frames are all
// rendered before the first push so one shared view timestamp covers
// the set. Per-panel failures are isolated: one dead screen never
// stops the others updating.
func (s *Scheduler) paint(log *zap.Logger) int {
	s.setState(StateRendering)
	view := render.View{Now: s.clock.Now(), Online: s.online}
	frames := make([]*image.RGBA, len(s.panels))
	for i, p := range s.panels {
		frames[i] = p.Renderer.Render(s.current, view)
	}

	s.setState(StatePushing)
	failures := 0
	for i, p := range s.panels {
		if err := s.push(p, frames[i]); err != nil {
			failures++
			ops.DisplayFailures.WithLabelValues(string(p.ID)).Inc()
			log.Warn("Display update failed",
				zap.String("display", string(p.ID)),
				zap.Error(err))
		}
	}
	return failures
}

// push sends one frame, programming the backlight first when it is not
// known to be set. The two are tried independently: a working SPI data
// path with a dead PWM pin should still show a picture.
func (s *Scheduler) push(p Panel, frame *image.RGBA) error {
	var firstErr error
	if !s.backlightSet[p.ID] {
		if err := s.driver.SetBacklight(p.ID, p.Backlight); err != nil {
			firstErr = fmt.Errorf("backlight: %w", err)
		} else {
			s.backlightSet[p.ID] = true
		}
	}
	if err := s.driver.PushImage(p.ID, frame); err != nil {
		s.backlightSet[p.ID] = false
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Scheduler) finishCycle(log *zap.Logger, start time.Time, outcome ops.Outcome, err error) error {
	duration := s.clock.Now().Sub(start)

	var snapshotAt time.Time
	if s.current != nil {
		snapshotAt = s.current.FetchedAt
		ops.SnapshotAge.Set(s.clock.Now().Sub(snapshotAt).Seconds())
	}
	ops.CyclesTotal.WithLabelValues(string(outcome)).Inc()
	ops.CycleDuration.Observe(duration.Seconds())
	s.monitor.RecordCycle(outcome, err, duration, snapshotAt)
	s.setState(StateIdle)

	switch outcome {
	case ops.OutcomeSuccess:
		log.Info("Cycle complete", zap.Duration("duration", duration))
	case ops.OutcomeDegraded:
		log.Warn("Cycle degraded", zap.Duration("duration", duration), zap.Error(err))
	default:
		log.Error("Cycle failed", zap.Duration("duration", duration), zap.Error(err))
	}
	return err
}

func (s *Scheduler) setState(st State) {
	s.monitor.SetState(st.String())
}
