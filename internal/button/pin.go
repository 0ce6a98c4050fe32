package button

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Pin is the reset button input. host.Init must have run first.
type Pin struct {
	p gpio.PinIO
}

// OpenPin configures the named GPIO line (e.g. "GPIO4") as an input with the
// internal pull-up enabled, so an idle button reads high.
func OpenPin(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio %s input: %w", name, err)
	}
	return &Pin{p: p}, nil
}

func (p *Pin) IsLow() bool {
	return p.p.Read() == gpio.Low
}
