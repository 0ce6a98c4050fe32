package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"cloudpico-panel/internal/button"
	"cloudpico-panel/internal/config"
	"cloudpico-panel/internal/db"
	"cloudpico-panel/internal/db/migrate"
	"cloudpico-panel/internal/display"
	"cloudpico-panel/internal/httpapi"
	"cloudpico-panel/internal/mqtt"
	"cloudpico-panel/internal/netinfo"
	"cloudpico-panel/internal/provisioning"
	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/weather"
)

// ErrFactoryReset is returned by Run after the credentials were erased. The
// process should exit with ExitCodeReset so the service manager restarts it.
var ErrFactoryReset = errors.New("factory reset requested")

const ExitCodeReset = 3

type credentialEraser interface {
	Erase(ctx context.Context) error
}

func Run(ctx context.Context, cfg config.Config) error {
	logger := slog.Default()
	logger.Info("initializing panel",
		"i2c_bus", cfg.I2CBus,
		"bme280_address", fmt.Sprintf("%#02x", cfg.BME280Address),
		"reset_pin", cfg.ResetPin,
		"refresh_interval", cfg.RefreshInterval,
		"location", cfg.LocationName,
	)

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("i2c open %q: %w", cfg.I2CBus, err)
	}
	defer bus.Close()

	oled, err := display.OpenOLED(bus, cfg.PanelWidth, cfg.PanelHeight, cfg.DisplayRotated)
	if err != nil {
		return err
	}
	defer func() {
		if err := oled.Halt(); err != nil {
			logger.Warn("display halt", "error", err)
		}
	}()

	bme, err := sensor.Open(bus, cfg.BME280Address)
	if err != nil {
		if showErr := display.ShowSensorError(oled); showErr != nil {
			logger.Error("sensor error screen", "error", showErr)
		}
		return err
	}
	defer func() { _ = bme.Halt() }()

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()
	if _, err := migrate.Run(ctx, conn, logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	store := provisioning.NewStore(conn)

	pin, err := button.OpenPin(cfg.ResetPin)
	if err != nil {
		return err
	}

	if err := announce(ctx, oled, store, cfg, logger); err != nil {
		return err
	}

	status := &httpapi.Status{}
	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewMux(status, conn, logger), logger)
	go func() {
		if err := httpapi.Serve(ctx, srv, logger); err != nil {
			logger.Error("http server stopped", "error", err)
		}
	}()

	var publisher Publisher
	if cfg.MQTTEnabled {
		client := mqtt.NewClient(cfg, logger)
		go func() {
			if err := client.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, mqtt.ErrStopped) {
				logger.Error("mqtt connect failed", "error", err)
			}
		}()
		defer client.Disconnect()
		publisher = client
	}

	ctrl := NewController(Deps{
		Surface:   oled,
		Sensor:    bme,
		Weather:   weather.NewClient(weather.Options{
			BaseURL:         cfg.WeatherBaseURL,
			Timeout:         cfg.FetchTimeout,
			RefreshInterval: cfg.RefreshInterval,
			Logger:          logger,
		}),
		Button:    pin,
		Publisher: publisher,
		Status:    status,
		Logger:    logger,
	}, Options{
		Coordinates:     weather.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
		Location:        cfg.LocationName,
		RefreshInterval: cfg.RefreshInterval,
		LongPress:       cfg.LongPressDuration,
		PanelWidth:      cfg.PanelWidth,
		ScrollSpeed:     cfg.ScrollSpeed,
		Start:           time.Now(),
	})

	err = runLoop(ctx, ctrl, cfg.FrameDelay, time.Now)
	if errors.Is(err, ErrFactoryReset) {
		return factoryReset(ctx, oled, store, cfg.ResetScreenDuration, logger)
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("panel shutting down")
		return nil
	}
	return err
}

// announce shows the provisioning hint when no network is stored, then the
// boot screen with the device addresses.
func announce(ctx context.Context, s display.Surface, store *provisioning.Store, cfg config.Config, logger *slog.Logger) error {
	_, err := store.Load(ctx)
	switch {
	case errors.Is(err, provisioning.ErrNotProvisioned):
		logger.Warn("no wifi credentials stored; run panelctl set-credentials")
		if err := display.ShowNotProvisioned(s, provisioning.SetupSSID(cfg.DeviceStationID)); err != nil {
			logger.Warn("display present failed", "error", err)
		}
		if err := sleepCtx(ctx, cfg.BootScreenDuration); err != nil {
			return err
		}
	case err != nil:
		logger.Warn("credential lookup failed", "error", err)
	}

	ipCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	localIP := netinfo.LocalIP()
	publicIP := netinfo.PublicIP(ipCtx, &http.Client{Timeout: cfg.FetchTimeout}, cfg.PublicIPURL)
	logger.Info("network", "local_ip", localIP, "public_ip", publicIP)

	if err := display.ShowBoot(s, localIP, publicIP); err != nil {
		logger.Warn("display present failed", "error", err)
	}
	return sleepCtx(ctx, cfg.BootScreenDuration)
}

// runLoop ticks ctrl with a fixed pause between ticks until ctx is done or a
// factory reset is requested. A slow fetch delays the next tick.
func runLoop(ctx context.Context, ctrl *Controller, frameDelay time.Duration, now func() time.Time) error {
	timer := time.NewTimer(frameDelay)
	defer timer.Stop()

	for {
		if ctrl.Tick(ctx, now()) {
			return ErrFactoryReset
		}

		timer.Reset(frameDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// factoryReset shows the reset screen, waits so it can be read and erases the
// stored credentials. The erase runs even if ctx is cancelled meanwhile.
func factoryReset(ctx context.Context, s display.Surface, store credentialEraser, wait time.Duration, logger *slog.Logger) error {
	logger.Warn("factory reset requested")
	if err := display.ShowFactoryReset(s); err != nil {
		logger.Warn("display present failed", "error", err)
	}
	_ = sleepCtx(ctx, wait)

	if err := store.Erase(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("%w: erase credentials: %v", ErrFactoryReset, err)
	}
	logger.Info("credentials erased; restarting")
	return ErrFactoryReset
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
