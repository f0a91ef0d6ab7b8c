package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	t.Setenv("CONFIG_FILE", path)
}

func TestLoadAppliesDefaults(t *testing.T) {
	writeConfig(t, `
station:
  latitude: 51.4279
  longitude: -0.1255
  name: Streatham
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 51.4279, cfg.Station.Latitude)
	assert.Equal(t, -0.1255, cfg.Station.Longitude)
	assert.Equal(t, "Streatham", cfg.Station.Name)

	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.Weather.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 30*time.Second, cfg.RepaintInterval())
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())

	assert.Equal(t, "hat", cfg.Display.Driver)
	assert.Equal(t, 90, cfg.Display.MainBacklight)
	assert.Equal(t, 45, cfg.Display.SideBacklight)

	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, time.Hour, cfg.SnapshotMaxAge())
	assert.Equal(t, ":8093", cfg.Ops.Addr)
	assert.False(t, cfg.Ops.Disabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadReadsEverythingFromFile(t *testing.T) {
	writeConfig(t, `
station:
  latitude: 51.4279
  longitude: -0.1255
  name: Streatham
weather:
  base_url: http://localhost:9000/v1/forecast
  refresh_seconds: 600
  repaint_seconds: 15
  timeout_seconds: 5
display:
  driver: console
  main_backlight: 70
  side_backlight: 30
storage:
  data_dir: /var/lib/weatherpanel
  max_age_seconds: 7200
ops:
  addr: ":9093"
  disabled: true
log_level: debug
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/v1/forecast", cfg.Weather.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 15*time.Second, cfg.RepaintInterval())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "console", cfg.Display.Driver)
	assert.Equal(t, 70, cfg.Display.MainBacklight)
	assert.Equal(t, 30, cfg.Display.SideBacklight)
	assert.Equal(t, "/var/lib/weatherpanel", cfg.Storage.DataDir)
	assert.Equal(t, 2*time.Hour, cfg.SnapshotMaxAge())
	assert.Equal(t, ":9093", cfg.Ops.Addr)
	assert.True(t, cfg.Ops.Disabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExplicitZeroBeatsDefault(t *testing.T) {
	writeConfig(t, `
station:
  latitude: 51.4279
  longitude: -0.1255
  name: Streatham
weather:
  repaint_seconds: 0
display:
  side_backlight: 0
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.RepaintInterval())
	assert.Equal(t, 0, cfg.Display.SideBacklight)
	assert.Equal(t, 90, cfg.Display.MainBacklight, "untouched fields keep their defaults")
}

func TestEnvFillsStationAndOverridesDriver(t *testing.T) {
	writeConfig(t, `
display:
  driver: hat
`)
	t.Setenv("STATION_NAME", "Streatham")
	t.Setenv("STATION_LATITUDE", "51.4279")
	t.Setenv("STATION_LONGITUDE", "-0.1255")
	t.Setenv("DISPLAY_DRIVER", "console")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Streatham", cfg.Station.Name)
	assert.Equal(t, 51.4279, cfg.Station.Latitude)
	assert.Equal(t, -0.1255, cfg.Station.Longitude)
	assert.Equal(t, "console", cfg.Display.Driver)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("STATION_NAME", "Streatham")
	t.Setenv("STATION_LATITUDE", "51.4279")
	t.Setenv("STATION_LONGITUDE", "-0.1255")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Streatham", cfg.Station.Name)
	assert.Equal(t, 300, cfg.Weather.RefreshSeconds)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"latitude out of range",
			"station:\n  latitude: 123.0\n  longitude: 0.0\n  name: X\n",
		},
		{
			"longitude out of range",
			"station:\n  latitude: 0.0\n  longitude: -200.0\n  name: X\n",
		},
		{
			"missing station name",
			"station:\n  latitude: 51.0\n  longitude: 0.0\n",
		},
		{
			"refresh too frequent",
			"station:\n  latitude: 51.0\n  longitude: 0.0\n  name: X\nweather:\n  refresh_seconds: 10\n",
		},
		{
			"unknown driver",
			"station:\n  latitude: 51.0\n  longitude: 0.0\n  name: X\ndisplay:\n  driver: fancy\n",
		},
		{
			"backlight over 100",
			"station:\n  latitude: 51.0\n  longitude: 0.0\n  name: X\ndisplay:\n  main_backlight: 150\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.body)
			t.Setenv("STATION_NAME", "")
			t.Setenv("DISPLAY_DRIVER", "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
