package weather

import "time"

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Raw is the undecorated result of one fetch.
type Raw struct {
	TemperatureC float64
	WeatherCode  int
}

// RemoteWeather is the forecast shown on the remote panel. It is replaced as a
// whole on every successful fetch and kept as-is when a fetch fails.
type RemoteWeather struct {
	TemperatureC float64   `json:"temperature_c"`
	WeatherCode  int       `json:"weather_code"`
	Status       string    `json:"status"`
	Icon         Icon      `json:"-"`
	FetchedAt    time.Time `json:"fetched_at"`
}

func FromRaw(raw Raw, fetchedAt time.Time) RemoteWeather {
	status, icon := Classify(raw.WeatherCode)
	return RemoteWeather{
		TemperatureC: raw.TemperatureC,
		WeatherCode:  raw.WeatherCode,
		Status:       status,
		Icon:         icon,
		FetchedAt:    fetchedAt,
	}
}
