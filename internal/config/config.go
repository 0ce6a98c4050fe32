package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// I2CBus is the periph bus name; empty selects the first bus (usually /dev/i2c-1).
	I2CBus         string
	BME280Address  uint16
	ResetPin       string
	DisplayRotated bool

	PanelWidth        int
	PanelHeight       int
	ScrollSpeed       int
	FrameDelay        time.Duration
	RefreshInterval   time.Duration
	LongPressDuration time.Duration

	Latitude       float64
	Longitude      float64
	LocationName   string
	WeatherBaseURL string
	FetchTimeout   time.Duration
	PublicIPURL    string

	BootScreenDuration  time.Duration
	ResetScreenDuration time.Duration

	SQLitePath string

	MQTTEnabled     bool
	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	DeviceStationID string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		I2CBus:          strings.TrimSpace(os.Getenv("I2C_BUS")),
		ResetPin:        envOr("RESET_PIN", "GPIO4"),
		LocationName:    envOr("LOCATION_NAME", "Ciro Marina"),
		WeatherBaseURL:  envOr("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		PublicIPURL:     envOr("PUBLIC_IP_URL", "http://api.ipify.org/"),
		SQLitePath:      envOr("SQLITE_PATH", "/var/lib/cloudpico-panel/panel.db"),
		MQTTBroker:      envOr("MQTT_BROKER", "localhost"),
		MQTTClientID:    envOr("MQTT_CLIENT_ID", "cloudpico-panel-"+uuid.NewString()[:8]),
		DeviceStationID: envOr("DEVICE_STATION_ID", "panel"),
	}

	bme280AddressStr := envOr("BME280_ADDRESS", "0x76")
	bme280Address, err := strconv.ParseUint(bme280AddressStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BME280_ADDRESS %q: %w", bme280AddressStr, err)
	}
	cfg.BME280Address = uint16(bme280Address)

	if cfg.DisplayRotated, err = envBool("DISPLAY_ROTATED", true); err != nil {
		return Config{}, err
	}
	if cfg.MQTTEnabled, err = envBool("MQTT_ENABLED", false); err != nil {
		return Config{}, err
	}

	if cfg.PanelWidth, err = envPositiveInt("PANEL_WIDTH", 128); err != nil {
		return Config{}, err
	}
	if cfg.PanelHeight, err = envPositiveInt("PANEL_HEIGHT", 64); err != nil {
		return Config{}, err
	}
	if cfg.ScrollSpeed, err = envPositiveInt("SCROLL_SPEED", 4); err != nil {
		return Config{}, err
	}
	if cfg.MQTTPort, err = envPositiveInt("MQTT_PORT", 1883); err != nil {
		return Config{}, err
	}

	// REFRESH_INTERVAL defaults to the 10s debug cadence of the first prototype.
	if cfg.RefreshInterval, err = envPositiveDuration("REFRESH_INTERVAL", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.FrameDelay, err = envPositiveDuration("FRAME_DELAY", "50ms"); err != nil {
		return Config{}, err
	}
	if cfg.LongPressDuration, err = envPositiveDuration("LONG_PRESS_DURATION", "5s"); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = envPositiveDuration("FETCH_TIMEOUT", "5s"); err != nil {
		return Config{}, err
	}
	if cfg.BootScreenDuration, err = envPositiveDuration("BOOT_SCREEN_DURATION", "2s"); err != nil {
		return Config{}, err
	}
	if cfg.ResetScreenDuration, err = envPositiveDuration("RESET_SCREEN_DURATION", "1s"); err != nil {
		return Config{}, err
	}

	if cfg.Latitude, err = envFloat("LATITUDE", "39.37", -90, 90); err != nil {
		return Config{}, err
	}
	if cfg.Longitude, err = envFloat("LONGITUDE", "17.13", -180, 180); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

func envPositiveInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

func envPositiveDuration(key, def string) (time.Duration, error) {
	s := envOr(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func envFloat(key, def string, min, max float64) (float64, error) {
	s := envOr(key, def)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s out of range: %v (allowed: %v..%v)", key, v, min, max)
	}
	return v, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
