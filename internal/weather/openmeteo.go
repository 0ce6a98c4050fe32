package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var (
	ErrRateLimited = errors.New("weather: rate limited")
	ErrUpstream    = errors.New("weather: upstream error")
)

// Options tunes the Open-Meteo client. Zero values pick the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// MinInterval bounds how often the upstream is called, whatever the
	// refresh cadence is configured to.
	MinInterval time.Duration

	// RefreshInterval is the caller's fetch cadence. When set, neither the
	// limiter nor an open breaker outlasts half of it, so every scheduled
	// fetch reaches the upstream, at worst as the half-open trial call.
	RefreshInterval time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

const (
	DefaultBaseURL     = "https://api.open-meteo.com/v1/forecast"
	defaultTimeout     = 5 * time.Second
	defaultMinInterval = time.Second
	breakerOpenTimeout = 60 * time.Second
	maxBodyBytes       = 64 << 10
)

// Client fetches the current weather from Open-Meteo. A failed call is never
// retried here; the caller decides when to try again.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[Raw]
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = defaultMinInterval
	}
	openTimeout := breakerOpenTimeout
	if opts.RefreshInterval > 0 {
		// gobreaker treats a zero Timeout as its 60s default.
		half := max(opts.RefreshInterval/2, time.Nanosecond)
		opts.MinInterval = min(opts.MinInterval, half)
		openTimeout = min(openTimeout, half)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger

	breaker := gobreaker.NewCircuitBreaker[Raw](gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("weather: circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		logger:  logger,
	}
}

type currentWeatherResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Fetch performs one request and decode cycle.
func (c *Client) Fetch(ctx context.Context, at Coordinates) (Raw, error) {
	if !c.limiter.Allow() {
		return Raw{}, ErrRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.breaker.Execute(func() (Raw, error) {
		return c.fetch(ctx, at)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Raw{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return Raw{}, err
	}
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, at Coordinates) (Raw, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	values.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return Raw{}, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug("weather: fetching", "url", req.URL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return Raw{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Raw{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload currentWeatherResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return Raw{}, fmt.Errorf("decode weather: %w", err)
	}
	if payload.CurrentWeather == nil {
		return Raw{}, fmt.Errorf("decode weather: missing current_weather")
	}

	raw := Raw{
		TemperatureC: payload.CurrentWeather.Temperature,
		WeatherCode:  payload.CurrentWeather.WeatherCode,
	}
	c.logger.Debug("weather: fetched", "temperature_c", raw.TemperatureC, "weather_code", raw.WeatherCode)
	return raw, nil
}
