// Package button turns the active-low reset button into a long-press signal.
package button

import "time"

const DefaultLongPress = 5 * time.Second

// Monitor detects a long press from per-tick pin samples. The zero pressStart
// means the button is not held.
type Monitor struct {
	longPress  time.Duration
	pressStart time.Time
}

func NewMonitor(longPress time.Duration) *Monitor {
	if longPress <= 0 {
		longPress = DefaultLongPress
	}
	return &Monitor{longPress: longPress}
}

// Held reports whether a press is in progress.
func (m *Monitor) Held() bool { return !m.pressStart.IsZero() }

// Tick samples the pin at now and reports whether the button has been held
// for longer than the long-press duration. Once true it stays true on every
// tick until the button is released; the caller acts on the first one.
func (m *Monitor) Tick(pinIsLow bool, now time.Time) bool {
	if !pinIsLow {
		m.pressStart = time.Time{}
		return false
	}
	if m.pressStart.IsZero() {
		m.pressStart = now
		return false
	}
	return now.Sub(m.pressStart) > m.longPress
}
