package display

import (
	"image"
	"strings"

	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/weather"
)

type drawCall struct {
	op   string
	x, y int
	font Font
	text string
	w, h int
}

// recorder is a Surface that remembers every draw call of the current frame.
type recorder struct {
	w, h     int
	calls    []drawCall
	clears   int
	presents int
}

func newRecorder() *recorder {
	return &recorder{w: DefaultPanelWidth, h: DefaultPanelHeight}
}

func (r *recorder) Size() (int, int) { return r.w, r.h }

func (r *recorder) Clear() {
	r.clears++
	r.calls = nil
}

func (r *recorder) DrawText(x, y int, f Font, s string) {
	r.calls = append(r.calls, drawCall{op: "text", x: x, y: y, font: f, text: s})
}

func (r *recorder) TextWidth(_ Font, s string) int { return 7 * len(s) }

func (r *recorder) DrawIcon(x, y int, mask image.Image) {
	b := mask.Bounds()
	r.calls = append(r.calls, drawCall{op: "icon", x: x, y: y, w: b.Dx(), h: b.Dy()})
}

func (r *recorder) DrawRect(x, y, w, h int) {
	r.calls = append(r.calls, drawCall{op: "rect", x: x, y: y, w: w, h: h})
}

func (r *recorder) Present() error {
	r.presents++
	return nil
}

// textAt returns the first text call whose string starts with prefix.
func (r *recorder) textAt(prefix string) (drawCall, bool) {
	for _, c := range r.calls {
		if c.op == "text" && strings.HasPrefix(c.text, prefix) {
			return c, true
		}
	}
	return drawCall{}, false
}

func (r *recorder) ops(op string) []drawCall {
	var out []drawCall
	for _, c := range r.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

type countingReader struct {
	reading sensor.Reading
	reads   int
}

func (c *countingReader) Read() sensor.Reading {
	c.reads++
	return c.reading
}

var (
	testLocal  = sensor.Reading{TemperatureC: 22.46, HumidityPct: 51.3, PressureHPa: 1013.4}
	testRemote = weather.FromRaw(weather.Raw{TemperatureC: 18.04, WeatherCode: 61}, fixedNow)
)
