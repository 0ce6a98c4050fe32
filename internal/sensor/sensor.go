package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// Reading is one local measurement.
type Reading struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	PressureHPa  float64 `json:"pressure_hpa"`
}

// BME280 reads the local environment sensor over I2C.
type BME280 struct {
	dev *bmxx80.Dev
}

// Open probes the sensor at addr. The device cannot be used without it, so
// callers treat an error here as fatal.
func Open(bus i2c.Bus, addr uint16) (*BME280, error) {
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("bme280 at %#02x: %w", addr, err)
	}
	return &BME280{dev: dev}, nil
}

func (s *BME280) Read() (Reading, error) {
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return Reading{}, fmt.Errorf("bme280 sense: %w", err)
	}
	return FromEnv(env), nil
}

func (s *BME280) Halt() error {
	return s.dev.Halt()
}

// FromEnv converts periph fixed-point units to °C, %RH and hPa.
func FromEnv(env physic.Env) Reading {
	return Reading{
		TemperatureC: env.Temperature.Celsius(),
		HumidityPct:  float64(env.Humidity) / float64(physic.PercentRH),
		PressureHPa:  float64(env.Pressure) / float64(100*physic.Pascal),
	}
}
