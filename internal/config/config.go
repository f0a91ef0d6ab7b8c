// Package config loads the appliance configuration from a YAML file
// with environment fallbacks, applies defaults and validates the
// result before anything touches hardware.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Station  StationConfig `yaml:"station"`
	Weather  WeatherConfig `yaml:"weather"`
	Display  DisplayConfig `yaml:"display"`
	Storage  StorageConfig `yaml:"storage"`
	Ops      OpsConfig     `yaml:"ops"`
	LogLevel string        `yaml:"log_level"`
}

type StationConfig struct {
	Latitude  float64 `yaml:"latitude" validate:"latitude"`
	Longitude float64 `yaml:"longitude" validate:"longitude"`
	Name      string  `yaml:"name" validate:"required"`
}

type WeatherConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	RefreshSeconds int    `yaml:"refresh_seconds" validate:"min=60"`
	RepaintSeconds int    `yaml:"repaint_seconds" validate:"min=0"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1"`
}

type DisplayConfig struct {
	Driver        string `yaml:"driver" validate:"oneof=hat console"`
	MainBacklight int    `yaml:"main_backlight" validate:"min=0,max=100"`
	SideBacklight int    `yaml:"side_backlight" validate:"min=0,max=100"`
}

type StorageConfig struct {
	DataDir       string `yaml:"data_dir"`
	MaxAgeSeconds int    `yaml:"max_age_seconds" validate:"min=0"`
}

type OpsConfig struct {
	Addr     string `yaml:"addr"`
	Disabled bool   `yaml:"disabled"`
}

// defaults returns the configuration the appliance ships with. YAML and
// environment values overwrite individual fields, so an explicit zero
// in the file still wins over a default.
func defaults() Config {
	return Config{
		Weather: WeatherConfig{
			BaseURL:        "https://api.open-meteo.com/v1/forecast",
			RefreshSeconds: 300,
			RepaintSeconds: 30,
			TimeoutSeconds: 10,
		},
		Display: DisplayConfig{
			Driver:        "hat",
			MainBacklight: 90,
			SideBacklight: 45,
		},
		Storage: StorageConfig{
			DataDir:       "./data",
			MaxAgeSeconds: 3600,
		},
		Ops:      OpsConfig{Addr: ":8093"},
		LogLevel: "info",
	}
}

// Load reads CONFIG_FILE (default config.yaml), fills gaps from the
// environment and validates. A missing file is fine: appliance images
// often configure entirely through an env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	cfg := defaults()
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.Station.Name == "" {
		cfg.Station.Name = os.Getenv("STATION_NAME")
	}
	if cfg.Station.Latitude == 0 && cfg.Station.Longitude == 0 {
		cfg.Station.Latitude = getenvFloat("STATION_LATITUDE", 0)
		cfg.Station.Longitude = getenvFloat("STATION_LONGITUDE", 0)
	}
	if v := os.Getenv("DISPLAY_DRIVER"); v != "" {
		cfg.Display.Driver = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	return validator.New().Struct(c)
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Weather.RefreshSeconds) * time.Second
}

func (c *Config) RepaintInterval() time.Duration {
	return time.Duration(c.Weather.RepaintSeconds) * time.Second
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Weather.TimeoutSeconds) * time.Second
}

func (c *Config) SnapshotMaxAge() time.Duration {
	return time.Duration(c.Storage.MaxAgeSeconds) * time.Second
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
