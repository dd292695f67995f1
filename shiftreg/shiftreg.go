// Package shiftreg moves frames of 8-bit codes into a chain of 74HC595
// shift registers and latches them onto the outputs.
//
// Three transports are provided: RPIO bit-bangs data, clock and latch GPIO
// lines, SPI uses a periph.io SPI port with a separate latch line, and Audit
// records frames in memory for tests and simulation.
package shiftreg

// BitOrder selects which bit of a code is shifted out first.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

func (o BitOrder) String() string {
	if o == LSBFirst {
		return "LSB"
	}
	return "MSB"
}

// Transport shifts codes out in the given order, first code first, then
// pulses the latch so the whole frame appears on the outputs at once.
type Transport interface {
	Send(order BitOrder, codes ...byte) error
}

// bit returns bit n (0 = first shifted) of code for the given order.
func bit(code byte, n uint, order BitOrder) bool {
	if order == LSBFirst {
		return code&(1<<n) != 0
	}
	return code&(0x80>>n) != 0
}
