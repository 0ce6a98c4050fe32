package display

import (
	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/weather"
)

const (
	DefaultPanelWidth  = 128
	DefaultPanelHeight = 64
	DefaultScrollSpeed = 4
)

// LocalReader supplies a fresh local reading each time a frame needs one.
type LocalReader interface {
	Read() sensor.Reading
}

// LocalReaderFunc adapts a function to LocalReader.
type LocalReaderFunc func() sensor.Reading

func (f LocalReaderFunc) Read() sensor.Reading { return f() }

// Engine draws one frame per Render call and animates the horizontal scroll
// between the local and the remote panel.
//
// The scroll offset is only meaningful while scrolling; it is zero in both
// steady states. A scroll may overshoot the panel width by up to speed-1
// pixels on its last frame; the surface clips it.
type Engine struct {
	width    int
	speed    int
	location string

	state  State
	offset int
}

func NewEngine(width, speed int, location string) *Engine {
	if width <= 0 {
		width = DefaultPanelWidth
	}
	if speed <= 0 {
		speed = DefaultScrollSpeed
	}
	return &Engine{
		width:    width,
		speed:    speed,
		location: location,
		state:    Local,
	}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Offset() int { return e.offset }

// BeginTransition starts a scroll toward the opposite panel and returns the
// new state.
func (e *Engine) BeginTransition() State {
	e.apply(EventRefresh)
	return e.state
}

func (e *Engine) apply(ev Event) {
	e.state = Next(e.state, ev)
	e.offset = 0
}

// Render clears s, draws the panels for the current state, outlines the
// panel and advances any running scroll by one step. It does not present.
func (e *Engine) Render(s Surface, local LocalReader, remote weather.RemoteWeather) {
	s.Clear()

	switch e.state {
	case Local:
		drawLocalPanel(s, 0, local.Read())
	case Remote:
		drawRemotePanel(s, 0, e.location, remote)
	case ScrollingToRemote:
		drawLocalPanel(s, -e.offset, local.Read())
		drawRemotePanel(s, e.width-e.offset, e.location, remote)
		e.step()
	case ScrollingToLocal:
		drawRemotePanel(s, -e.offset, e.location, remote)
		drawLocalPanel(s, e.width-e.offset, local.Read())
		e.step()
	}

	w, h := s.Size()
	s.DrawRect(0, 0, w-1, h-1)
}

func (e *Engine) step() {
	e.offset += e.speed
	if e.offset >= e.width {
		e.apply(EventScrollDone)
	}
}
