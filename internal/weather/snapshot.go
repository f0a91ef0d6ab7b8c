package weather

import (
	"math"
	"time"
)

// Location is the fixed station coordinate pair queried every cycle.
type Location struct {
	Latitude  float64
	Longitude float64
}

// ConditionCode is a WMO weather interpretation code as reported by the
// Open-Meteo API.
type ConditionCode int

// IconKind selects which condition glyph a renderer draws for a code.
type IconKind int

const (
	IconClear IconKind = iota
	IconPartly
	IconCloud
	IconFog
	IconRain
	IconSnow
	IconStorm
)

// Snapshot holds one cycle's worth of weather data. TemperatureC, Code and
// FetchedAt are always present; the remaining fields are nil (or zero, for
// times) when the provider omitted them, and renderers drop the matching
// visual element instead of failing.
type Snapshot struct {
	TemperatureC float64       `json:"temperature_c"`
	Code         ConditionCode `json:"condition_code"`

	FeelsLikeC       *float64 `json:"feels_like_c,omitempty"`
	HighC            *float64 `json:"high_c,omitempty"`
	LowC             *float64 `json:"low_c,omitempty"`
	HumidityPct      *float64 `json:"humidity_pct,omitempty"`
	WindSpeedKmh     *float64 `json:"wind_speed_kmh,omitempty"`
	WindDirectionDeg *float64 `json:"wind_direction_deg,omitempty"`
	UVIndex          *float64 `json:"uv_index,omitempty"`

	Sunrise time.Time `json:"sunrise,omitempty"`
	Sunset  time.Time `json:"sunset,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

var conditionLabels = map[ConditionCode]string{
	0:  "Clear",
	1:  "Mostly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Icy Fog",
	51: "Light Drizzle",
	53: "Drizzle",
	55: "Heavy Drizzle",
	61: "Light Rain",
	63: "Rain",
	65: "Heavy Rain",
	71: "Light Snow",
	73: "Snow",
	75: "Heavy Snow",
	77: "Snow Grains",
	80: "Showers",
	81: "Rain Showers",
	82: "Heavy Showers",
	85: "Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm",
	96: "Storm+Hail",
	99: "Severe Storm",
}

// Label returns the human-readable condition for the code.
func (c ConditionCode) Label() string {
	if label, ok := conditionLabels[c]; ok {
		return label
	}
	return "Unknown"
}

// Icon maps the code onto the small set of glyphs the main panel can draw.
func (c ConditionCode) Icon() IconKind {
	switch {
	case c <= 1:
		return IconClear
	case c == 2:
		return IconPartly
	case c == 3:
		return IconCloud
	case c == 45 || c == 48:
		return IconFog
	case c >= 51 && c <= 67:
		return IconRain
	case c >= 71 && c <= 77:
		return IconSnow
	case c >= 80 && c <= 82:
		return IconRain
	case c == 85 || c == 86:
		return IconSnow
	case c >= 95:
		return IconStorm
	default:
		return IconCloud
	}
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint reduces a wind direction in degrees to an 8-point compass
// label, e.g. 225 -> "SW".
func CompassPoint(deg float64) string {
	i := int(math.Round(deg/45)) % 8
	if i < 0 {
		i += 8
	}
	return compassPoints[i]
}
