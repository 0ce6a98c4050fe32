package display

import (
	"fmt"

	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/weather"
)

const (
	localMarginX  = 2
	remoteMarginX = 32
	iconSize      = 24
)

func drawLocalPanel(s Surface, x int, r sensor.Reading) {
	s.DrawText(localMarginX+x, 0, FontLarge, "Local data")
	s.DrawText(localMarginX+x, 20, FontSmall, fmt.Sprintf("Temp: %.1f C", r.TemperatureC))
	s.DrawText(localMarginX+x, 35, FontSmall, fmt.Sprintf("Hum: %.1f %%", r.HumidityPct))
	s.DrawText(localMarginX+x, 50, FontSmall, fmt.Sprintf("Pres: %.0f hPa", r.PressureHPa))
}

func drawRemotePanel(s Surface, x int, location string, rw weather.RemoteWeather) {
	if mask := IconMask(rw.Icon); mask != nil {
		s.DrawIcon(localMarginX+x, 0, mask)
	}
	s.DrawText(remoteMarginX+x, 0, FontLarge, location)
	s.DrawText(remoteMarginX+x, 20, FontSmall, rw.Status)
	s.DrawText(remoteMarginX+x, 35, FontSmall, fmt.Sprintf("%.1f C", rw.TemperatureC))
}
