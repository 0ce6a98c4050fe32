package app

import (
	"context"
	"log/slog"
	"time"

	"cloudpico-panel/internal/button"
	"cloudpico-panel/internal/display"
	"cloudpico-panel/internal/httpapi"
	"cloudpico-panel/internal/mqtt"
	"cloudpico-panel/internal/scheduler"
	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/weather"
)

type WeatherFetcher interface {
	Fetch(ctx context.Context, at weather.Coordinates) (weather.Raw, error)
}

type LocalSensor interface {
	Read() (sensor.Reading, error)
}

type ResetButton interface {
	IsLow() bool
}

type Publisher interface {
	PublishTelemetry(mqtt.Telemetry) error
	PublishForecast(mqtt.Forecast) error
}

// Deps are the collaborators of a Controller. Publisher and Status may be nil.
type Deps struct {
	Surface   display.Surface
	Sensor    LocalSensor
	Weather   WeatherFetcher
	Button    ResetButton
	Publisher Publisher
	Status    *httpapi.Status
	Logger    *slog.Logger
}

type Options struct {
	Coordinates     weather.Coordinates
	Location        string
	RefreshInterval time.Duration
	LongPress       time.Duration
	PanelWidth      int
	ScrollSpeed     int
	// Start is when the loop begins; the first refresh is due one interval later.
	Start time.Time
}

// Controller owns every piece of loop state. One goroutine drives it through
// Tick; nothing else touches it.
type Controller struct {
	deps Deps
	opts Options
	log  *slog.Logger

	engine  *display.Engine
	sched   *scheduler.Scheduler
	monitor *button.Monitor

	local     sensor.Reading
	remote    weather.RemoteWeather
	hasRemote bool

	lastFetchAt  time.Time
	lastFetchErr error
	refreshes    uint64
	sensorFailed bool
}

func NewController(deps Deps, opts Options) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller{
		deps:    deps,
		opts:    opts,
		log:     deps.Logger,
		engine:  display.NewEngine(opts.PanelWidth, opts.ScrollSpeed, opts.Location),
		sched:   scheduler.New(opts.RefreshInterval, opts.Start),
		monitor: button.NewMonitor(opts.LongPress),
	}
}

func (c *Controller) State() display.State { return c.engine.State() }

func (c *Controller) Offset() int { return c.engine.Offset() }

// Remote returns the weather on the remote panel and whether any fetch has
// succeeded yet.
func (c *Controller) Remote() (weather.RemoteWeather, bool) { return c.remote, c.hasRemote }

func (c *Controller) LastFetchErr() error { return c.lastFetchErr }

// Tick runs one loop iteration at now and reports whether a factory reset
// was requested. When it was, nothing else happens in this tick.
func (c *Controller) Tick(ctx context.Context, now time.Time) bool {
	if c.monitor.Tick(c.deps.Button.IsLow(), now) {
		return true
	}

	if trig, ok := c.sched.Tick(now); ok {
		c.refresh(ctx, trig)
	}

	c.engine.Render(c.deps.Surface, display.LocalReaderFunc(c.readLocal), c.remote)
	if err := c.deps.Surface.Present(); err != nil {
		c.log.Warn("display present failed", "error", err)
	}

	c.snapshot(now)
	return false
}

func (c *Controller) refresh(ctx context.Context, trig scheduler.Trigger) {
	c.refreshes++
	c.lastFetchAt = trig.At

	raw, err := c.deps.Weather.Fetch(ctx, c.opts.Coordinates)
	c.lastFetchErr = err
	if err != nil {
		c.log.Warn("weather fetch failed; keeping previous forecast", "error", err, "seq", trig.Seq)
	} else {
		c.remote = weather.FromRaw(raw, trig.At)
		c.hasRemote = true
		c.log.Debug("weather updated",
			"temperature_c", c.remote.TemperatureC,
			"weather_code", c.remote.WeatherCode,
			"status", c.remote.Status,
		)
	}

	from := c.engine.State()
	to := c.engine.BeginTransition()
	c.log.Debug("display transition", "from", from.String(), "to", to.String())

	c.publish(trig, err == nil)
}

func (c *Controller) publish(trig scheduler.Trigger, fetched bool) {
	if c.deps.Publisher == nil {
		return
	}
	local := c.readLocal()
	if err := c.deps.Publisher.PublishTelemetry(mqtt.TelemetryFromReading(local, trig.At, int(trig.Seq))); err != nil {
		c.log.Debug("telemetry not published", "error", err)
	}
	if !fetched {
		return
	}
	if err := c.deps.Publisher.PublishForecast(mqtt.ForecastFromWeather(c.remote, c.opts.Location, c.opts.Coordinates)); err != nil {
		c.log.Debug("forecast not published", "error", err)
	}
}

// readLocal returns a fresh reading, or the last good one if the sensor
// fails after boot.
func (c *Controller) readLocal() sensor.Reading {
	r, err := c.deps.Sensor.Read()
	if err != nil {
		if !c.sensorFailed {
			c.log.Warn("sensor read failed; showing last reading", "error", err)
			c.sensorFailed = true
		}
		return c.local
	}
	if c.sensorFailed {
		c.log.Info("sensor read recovered")
		c.sensorFailed = false
	}
	c.local = r
	return r
}

func (c *Controller) snapshot(now time.Time) {
	if c.deps.Status == nil {
		return
	}
	snap := httpapi.Snapshot{
		State:        c.engine.State().String(),
		ScrollOffset: c.engine.Offset(),
		Local:        c.local,
		Location:     c.opts.Location,
		LastFetchAt:  c.lastFetchAt,
		Refreshes:    c.refreshes,
		UpdatedAt:    now,
	}
	if c.hasRemote {
		r := c.remote
		snap.Remote = &r
	}
	if c.lastFetchErr != nil {
		snap.LastFetchError = c.lastFetchErr.Error()
	}
	c.deps.Status.Set(snap)
}
