package display

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudpico-panel/internal/weather"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewEngine_startsLocal(t *testing.T) {
	e := NewEngine(128, 4, "Ciro Marina")
	assert.Equal(t, Local, e.State())
	assert.Equal(t, 0, e.Offset())
}

func TestNewEngine_defaults(t *testing.T) {
	e := NewEngine(0, -1, "x")
	assert.Equal(t, DefaultPanelWidth, e.width)
	assert.Equal(t, DefaultScrollSpeed, e.speed)
}

func TestRender_local(t *testing.T) {
	e := NewEngine(128, 4, "Ciro Marina")
	s := newRecorder()
	local := &countingReader{reading: testLocal}

	e.Render(s, local, testRemote)

	assert.Equal(t, 1, s.clears)
	assert.Equal(t, 1, local.reads)
	assert.Equal(t, Local, e.State())
	assert.Equal(t, 0, e.Offset())

	title, ok := s.textAt("Local data")
	require.True(t, ok)
	assert.Equal(t, drawCall{op: "text", x: 2, y: 0, font: FontLarge, text: "Local data"}, title)

	for _, want := range []drawCall{
		{op: "text", x: 2, y: 20, font: FontSmall, text: "Temp: 22.5 C"},
		{op: "text", x: 2, y: 35, font: FontSmall, text: "Hum: 51.3 %"},
		{op: "text", x: 2, y: 50, font: FontSmall, text: "Pres: 1013 hPa"},
	} {
		assert.Contains(t, s.calls, want)
	}
	assert.Equal(t, []drawCall{{op: "rect", x: 0, y: 0, w: 127, h: 63}}, s.ops("rect"))
	assert.Empty(t, s.ops("icon"))
	assert.Zero(t, s.presents, "Render leaves presenting to the caller")
}

func TestRender_remote(t *testing.T) {
	e := NewEngine(128, 4, "Ciro Marina")
	e.BeginTransition()
	for e.State() != Remote {
		e.Render(newRecorder(), &countingReader{}, testRemote)
	}

	s := newRecorder()
	local := &countingReader{}
	e.Render(s, local, testRemote)

	assert.Zero(t, local.reads, "remote panel must not touch the sensor")
	assert.Equal(t, []drawCall{{op: "icon", x: 2, y: 0, w: 24, h: 24}}, s.ops("icon"))
	assert.Contains(t, s.calls, drawCall{op: "text", x: 32, y: 0, font: FontLarge, text: "Ciro Marina"})
	assert.Contains(t, s.calls, drawCall{op: "text", x: 32, y: 20, font: FontSmall, text: "Rain"})
	assert.Contains(t, s.calls, drawCall{op: "text", x: 32, y: 35, font: FontSmall, text: "18.0 C"})
}

func TestRender_remoteUnknownCodeHasNoIcon(t *testing.T) {
	e := NewEngine(128, 128, "Ciro Marina")
	e.BeginTransition()
	e.Render(newRecorder(), &countingReader{}, testRemote)
	require.Equal(t, Remote, e.State())

	s := newRecorder()
	e.Render(s, &countingReader{}, weather.FromRaw(weather.Raw{WeatherCode: 15}, fixedNow))

	assert.Empty(t, s.ops("icon"))
	assert.Contains(t, s.calls, drawCall{op: "text", x: 32, y: 20, font: FontSmall, text: "Unknown"})
}

func TestRender_remoteBeforeFirstFetchHasNoIcon(t *testing.T) {
	e := NewEngine(128, 128, "Ciro Marina")
	e.BeginTransition()
	e.Render(newRecorder(), &countingReader{}, weather.RemoteWeather{})
	require.Equal(t, Remote, e.State())

	s := newRecorder()
	e.Render(s, &countingReader{}, weather.RemoteWeather{})

	assert.Empty(t, s.ops("icon"), "no forecast yet, so no sun either")
	assert.Contains(t, s.calls, drawCall{op: "text", x: 32, y: 20, font: FontSmall, text: ""})
	assert.Contains(t, s.calls, drawCall{op: "text", x: 32, y: 35, font: FontSmall, text: "0.0 C"})
}

func TestRender_scrollingToRemotePositions(t *testing.T) {
	e := NewEngine(128, 4, "Ciro Marina")
	require.Equal(t, ScrollingToRemote, e.BeginTransition())

	s := newRecorder()
	e.Render(s, &countingReader{reading: testLocal}, testRemote)

	title, _ := s.textAt("Local data")
	assert.Equal(t, 2, title.x)
	loc, _ := s.textAt("Ciro Marina")
	assert.Equal(t, 128+32, loc.x)
	assert.Equal(t, []drawCall{{op: "icon", x: 128 + 2, y: 0, w: 24, h: 24}}, s.ops("icon"))
	assert.Equal(t, 4, e.Offset())

	e.Render(s, &countingReader{reading: testLocal}, testRemote)
	title, _ = s.textAt("Local data")
	assert.Equal(t, 2-4, title.x)
	loc, _ = s.textAt("Ciro Marina")
	assert.Equal(t, 128-4+32, loc.x)
	assert.Equal(t, 8, e.Offset())
}

func TestRender_scrollingToLocalPositions(t *testing.T) {
	e := NewEngine(128, 128, "Ciro Marina")
	e.BeginTransition()
	e.Render(newRecorder(), &countingReader{}, testRemote)
	require.Equal(t, Remote, e.State())

	e.speed = 4
	require.Equal(t, ScrollingToLocal, e.BeginTransition())

	s := newRecorder()
	e.Render(s, &countingReader{reading: testLocal}, testRemote)

	loc, _ := s.textAt("Ciro Marina")
	assert.Equal(t, 32, loc.x, "remote panel starts where it was")
	title, _ := s.textAt("Local data")
	assert.Equal(t, 128+2, title.x, "local panel enters from the right")
}

func TestRender_completesWithinCeilWidthOverSpeed(t *testing.T) {
	tests := []struct{ width, speed int }{
		{128, 4}, {128, 5}, {128, 1}, {128, 128}, {128, 200}, {96, 7},
	}

	for _, tt := range tests {
		e := NewEngine(tt.width, tt.speed, "x")
		e.BeginTransition()
		calls := (tt.width + tt.speed - 1) / tt.speed

		for i := 1; i < calls; i++ {
			e.Render(newRecorder(), &countingReader{}, testRemote)
			require.Equal(t, ScrollingToRemote, e.State(), "w=%d s=%d frame %d", tt.width, tt.speed, i)
			require.Less(t, e.Offset(), tt.width)
		}
		e.Render(newRecorder(), &countingReader{}, testRemote)
		assert.Equal(t, Remote, e.State(), "w=%d s=%d", tt.width, tt.speed)
		assert.Equal(t, 0, e.Offset())
	}
}

func TestBeginTransition_midScrollFlipsAndResets(t *testing.T) {
	e := NewEngine(128, 4, "x")
	e.BeginTransition()
	for i := 0; i < 10; i++ {
		e.Render(newRecorder(), &countingReader{}, testRemote)
	}
	require.Equal(t, 40, e.Offset())

	assert.Equal(t, ScrollingToLocal, e.BeginTransition())
	assert.Equal(t, 0, e.Offset())

	assert.Equal(t, ScrollingToRemote, e.BeginTransition())
	assert.Equal(t, 0, e.Offset())
}

func TestEngine_offsetZeroInSteadyStates(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	e := NewEngine(128, 4, "x")

	for i := 0; i < 5000; i++ {
		if rng.IntN(40) == 0 {
			e.BeginTransition()
		} else {
			e.Render(newRecorder(), &countingReader{}, testRemote)
		}
		if e.State().Steady() {
			require.Equal(t, 0, e.Offset(), "step %d state %s", i, e.State())
		} else {
			require.GreaterOrEqual(t, e.Offset(), 0)
			require.Less(t, e.Offset(), 128)
		}
	}
}
