package weather

// Icon selects the glyph drawn next to the remote forecast.
type Icon int

const (
	IconNone Icon = iota
	IconSun
	IconPartlyCloudy
	IconFog
	IconRain
	IconSnow
	IconThunderstorm
)

func (i Icon) String() string {
	switch i {
	case IconSun:
		return "sun"
	case IconPartlyCloudy:
		return "partly_cloudy"
	case IconFog:
		return "fog"
	case IconRain:
		return "rain"
	case IconSnow:
		return "snow"
	case IconThunderstorm:
		return "thunderstorm"
	default:
		return "none"
	}
}

const (
	StatusClear        = "Clear"
	StatusPartlyCloudy = "Partly cloudy"
	StatusFog          = "Fog"
	StatusRain         = "Rain"
	StatusSnow         = "Snow"
	StatusThunderstorm = "Thunderstorm"
	StatusUnknown      = "Unknown"
)

// Classify maps a WMO weather code as reported by Open-Meteo to a status label
// and icon. All bounds are exclusive, so codes such as 4, 49, 50, 68, 70, 78,
// 79 and 100 intentionally report Unknown.
func Classify(code int) (string, Icon) {
	switch {
	case code == 0:
		return StatusClear, IconSun
	case code > 0 && code < 4:
		return StatusPartlyCloudy, IconPartlyCloudy
	case code > 44 && code < 49:
		return StatusFog, IconFog
	case code > 50 && code < 68:
		return StatusRain, IconRain
	case code > 70 && code < 78:
		return StatusSnow, IconSnow
	case code > 79 && code < 100:
		return StatusThunderstorm, IconThunderstorm
	default:
		return StatusUnknown, IconNone
	}
}
