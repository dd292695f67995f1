package shiftreg

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio"
)

// Pins are BCM GPIO numbers of the lines wired to the first register.
type Pins struct {
	Data  int
	Clock int
	Latch int
	// Enable is the active low output enable line, negative when OE is tied
	// to ground.
	Enable int
}

var closeGPIO = rpio.Close

type outPin interface {
	High()
	Low()
}

// RPIO bit-bangs frames on Raspberry Pi GPIO lines.
type RPIO struct {
	data   outPin
	clock  outPin
	latch  outPin
	enable outPin
	pins   Pins
}

// OpenRPIO maps the GPIO memory and sets the lines up as outputs, with the
// latch and clock low.
func OpenRPIO(pins Pins) (*RPIO, error) {
	if pins.Data < 0 || pins.Clock < 0 || pins.Latch < 0 {
		return nil, errors.Errorf("shiftreg: bad pins %+v", pins)
	}
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "shiftreg: open gpio")
	}

	setup := func(n int) rpio.Pin {
		p := rpio.Pin(n)
		p.Output()
		p.Low()
		return p
	}
	r := &RPIO{
		data:  setup(pins.Data),
		clock: setup(pins.Clock),
		latch: setup(pins.Latch),
		pins:  pins,
	}
	if pins.Enable >= 0 {
		// outputs on
		r.enable = setup(pins.Enable)
	}
	return r, nil
}

// Send shifts every code out then raises the latch.
func (r *RPIO) Send(order BitOrder, codes ...byte) error {
	r.latch.Low()
	for _, c := range codes {
		r.shiftOut(c, order)
	}
	r.latch.High()
	return nil
}

func (r *RPIO) shiftOut(code byte, order BitOrder) {
	for n := uint(0); n < 8; n++ {
		if bit(code, n, order) {
			r.data.High()
		} else {
			r.data.Low()
		}
		r.clock.High()
		r.clock.Low()
	}
}

// Enable drives the output enable line, a no-op without one.
func (r *RPIO) Enable(on bool) {
	if r.enable == nil {
		return
	}
	// OE is active low
	if on {
		r.enable.Low()
	} else {
		r.enable.High()
	}
}

// Close turns the outputs off and releases the GPIO mapping.
func (r *RPIO) Close() error {
	r.Enable(false)
	return errors.Wrap(closeGPIO(), "shiftreg: close gpio")
}

func (r *RPIO) String() string {
	return fmt.Sprintf("shiftreg.RPIO{data:%d clock:%d latch:%d}", r.pins.Data, r.pins.Clock, r.pins.Latch)
}
