package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public, keyless Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// FetchCause classifies a fetch failure coarsely for logs and metrics.
type FetchCause string

const (
	CauseNetwork   FetchCause = "network"
	CauseBadStatus FetchCause = "bad_status"
	CauseParse     FetchCause = "parse"
)

// FetchError wraps any failure to acquire a snapshot with its cause.
type FetchError struct {
	Cause FetchCause
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("weather fetch (%s): %v", e.Cause, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Cause extracts the failure cause from an error returned by Fetch.
func Cause(err error) FetchCause {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Cause
	}
	return CauseNetwork
}

// Client queries the Open-Meteo forecast API. It issues exactly one request
// per Fetch call and keeps no state between calls; retry policy and caching
// of the last good snapshot belong to the scheduler.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// forecastResponse mirrors the slice of the Open-Meteo payload we request.
// Current fields are pointers so a missing required field is detectable
// rather than silently zero.
type forecastResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature   *float64 `json:"temperature_2m"`
		FeelsLike     *float64 `json:"apparent_temperature"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
		WeatherCode   *int     `json:"weather_code"`
		UVIndex       *float64 `json:"uv_index"`
	} `json:"current"`
	Daily struct {
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		Sunrise        []string  `json:"sunrise"`
		Sunset         []string  `json:"sunset"`
	} `json:"daily"`
}

// Fetch retrieves current conditions and today's forecast extremes for the
// given location. Failures are returned as *FetchError; no partial snapshot
// is ever produced.
func (c *Client) Fetch(ctx context.Context, loc Location) (*Snapshot, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,wind_direction_10m,weather_code,uv_index&daily=temperature_2m_max,temperature_2m_min,sunrise,sunset&timezone=auto&forecast_days=1",
		c.baseURL, loc.Latitude, loc.Longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Cause: CauseNetwork, Err: fmt.Errorf("failed to create weather request: %w", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Cause: CauseNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Cause: CauseBadStatus, Err: fmt.Errorf("weather API returned status %d", resp.StatusCode)}
	}

	var apiResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &FetchError{Cause: CauseParse, Err: fmt.Errorf("failed to decode weather response: %w", err)}
	}

	if apiResp.Current.Temperature == nil || apiResp.Current.WeatherCode == nil {
		return nil, &FetchError{Cause: CauseParse, Err: fmt.Errorf("response missing current temperature or weather code")}
	}

	location, err := time.LoadLocation(apiResp.Timezone)
	if err != nil {
		c.logger.Warn("Failed to load provider timezone, using UTC",
			zap.String("timezone", apiResp.Timezone), zap.Error(err))
		location = time.UTC
	}

	snap := &Snapshot{
		TemperatureC:     *apiResp.Current.Temperature,
		Code:             ConditionCode(*apiResp.Current.WeatherCode),
		FeelsLikeC:       apiResp.Current.FeelsLike,
		HumidityPct:      apiResp.Current.Humidity,
		WindSpeedKmh:     apiResp.Current.WindSpeed,
		WindDirectionDeg: apiResp.Current.WindDirection,
		UVIndex:          apiResp.Current.UVIndex,
		FetchedAt:        time.Now(),
	}

	if len(apiResp.Daily.TemperatureMax) > 0 {
		high := apiResp.Daily.TemperatureMax[0]
		snap.HighC = &high
	}
	if len(apiResp.Daily.TemperatureMin) > 0 {
		low := apiResp.Daily.TemperatureMin[0]
		snap.LowC = &low
	}
	if len(apiResp.Daily.Sunrise) > 0 {
		snap.Sunrise = c.parseLocalTime(apiResp.Daily.Sunrise[0], location)
	}
	if len(apiResp.Daily.Sunset) > 0 {
		snap.Sunset = c.parseLocalTime(apiResp.Daily.Sunset[0], location)
	}

	return snap, nil
}

// parseLocalTime parses an Open-Meteo local timestamp ("2006-01-02T15:04").
// A malformed value degrades to the zero time rather than failing the fetch.
func (c *Client) parseLocalTime(value string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", value, loc)
	if err != nil {
		c.logger.Warn("Failed to parse provider time", zap.String("value", value), zap.Error(err))
		return time.Time{}
	}
	return t
}
