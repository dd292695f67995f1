package main

import (
	"github.com/pkg/errors"
	// gpio lib
	"github.com/stianeikeland/go-rpio"
)

type rpioButtons struct {
	pins map[string]rpio.Pin
}

func (rb *rpioButtons) setupButtons(pins map[string]buttonPin, rt runtimeConfig) error {
	rb.pins = make(map[string]rpio.Pin)

	// the shift register transport may have opened it already
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "open gpio for buttons")
	}

	for k, v := range pins {
		pin := rpio.Pin(v.pinNum)
		pin.Input()
		if v.pullup {
			pin.PullUp() // GND => button press
		} else {
			pin.PullDown() // +V -> button press
		}
		rb.pins[k] = pin
	}
	return nil
}

func (rb *rpioButtons) readButtons(rt runtimeConfig) (map[string]rpio.State, error) {
	ret := make(map[string]rpio.State, len(rb.pins))
	for k, v := range rb.pins {
		ret[k] = v.Read()
	}
	return ret, nil
}

func (rb *rpioButtons) closeButtons() {
	for _, v := range rb.pins {
		v.PullOff()
	}
}
