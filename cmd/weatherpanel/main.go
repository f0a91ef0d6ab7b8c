package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dannybellieveit/weather-display/internal/config"
	"github.com/dannybellieveit/weather-display/internal/display"
	"github.com/dannybellieveit/weather-display/internal/display/hat"
	"github.com/dannybellieveit/weather-display/internal/logger"
	"github.com/dannybellieveit/weather-display/internal/ops"
	"github.com/dannybellieveit/weather-display/internal/render"
	"github.com/dannybellieveit/weather-display/internal/scheduler"
	"github.com/dannybellieveit/weather-display/internal/storage"
	"github.com/dannybellieveit/weather-display/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	driver, err := newDriver(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open displays", zap.Error(err))
	}
	defer driver.Close()

	set, err := render.NewSet(cfg.Station.Name)
	if err != nil {
		zlog.Fatal("Failed to load fonts", zap.Error(err))
	}
	panels := []scheduler.Panel{
		{ID: display.Main, Renderer: set.Main, Backlight: cfg.Display.MainBacklight},
		{ID: display.Left, Renderer: set.Left, Backlight: cfg.Display.SideBacklight},
		{ID: display.Right, Renderer: set.Right, Backlight: cfg.Display.SideBacklight},
	}

	var store scheduler.Store
	if cfg.Storage.DataDir != "" {
		snapStore, err := storage.NewSnapshotStore(cfg.Storage.DataDir, cfg.SnapshotMaxAge())
		if err != nil {
			zlog.Warn("Snapshot persistence disabled", zap.Error(err))
		} else {
			store = snapStore
		}
	}

	fetcher := weather.NewClient(cfg.Weather.BaseURL, cfg.FetchTimeout(), zlog)
	sched := scheduler.New(cfg, fetcher, panels, driver, store, nil, zlog)
	sched.Initialize()

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		if err := sched.RunOnce(ctx); err != nil {
			zlog.Error("Cycle did not fully succeed", zap.Error(err))
			return
		}
		zlog.Info("Cycle complete, exiting")
		return
	}

	var opsServer *ops.Server
	if !cfg.Ops.Disabled {
		opsServer = ops.NewServer(cfg.Ops.Addr, sched.Monitor(), zlog)
		go func() {
			if err := opsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zlog.Error("Ops server failed", zap.Error(err))
			}
		}()
	}

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Error("Scheduler stopped unexpectedly", zap.Error(err))
	}

	if opsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("Ops server shutdown failed", zap.Error(err))
		}
	}
}

// newDriver opens the configured display backend: the ST77xx hat on a
// Pi, or a console driver that just logs frames for development off
// the hardware.
func newDriver(cfg *config.Config, zlog *zap.Logger) (display.Driver, error) {
	if cfg.Display.Driver == "hat" {
		return hat.New(zlog)
	}
	return display.NewConsole(zlog), nil
}
