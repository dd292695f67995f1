package shiftreg

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultSPIFrequency is half of a 16MHz clock, the fastest a 74HC595
// chain reliably takes on long wires.
const DefaultSPIFrequency = 8 * physic.MegaHertz

// SPI sends frames through a hardware SPI port. MOSI feeds the register
// data input, SCLK its clock, and latch is a plain GPIO output.
type SPI struct {
	c     spi.Conn
	latch gpio.PinOut
}

// NewSPI connects to the port in Mode0 with 8-bit words. f of zero uses
// DefaultSPIFrequency.
func NewSPI(p spi.Port, latch gpio.PinOut, f physic.Frequency) (*SPI, error) {
	if latch == nil {
		return nil, errors.New("shiftreg: latch pin is required")
	}
	if f == 0 {
		f = DefaultSPIFrequency
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrap(err, "shiftreg: connect spi")
	}
	if err := latch.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(err, "shiftreg: pull %s low", latch)
	}
	return &SPI{c: c, latch: latch}, nil
}

// Send writes the frame in one transaction. The port shifts MSB first, so
// LSB first codes are bit-reversed before the write.
func (s *SPI) Send(order BitOrder, codes ...byte) error {
	w := make([]byte, len(codes))
	for i, c := range codes {
		if order == LSBFirst {
			c = bits.Reverse8(c)
		}
		w[i] = c
	}
	if err := s.latch.Out(gpio.Low); err != nil {
		return errors.Wrap(err, "shiftreg: latch low")
	}
	if err := s.c.Tx(w, nil); err != nil {
		return errors.Wrap(err, "shiftreg: spi write")
	}
	if err := s.latch.Out(gpio.High); err != nil {
		return errors.Wrap(err, "shiftreg: latch high")
	}
	return nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("shiftreg.SPI{%s, latch:%s}", s.c, s.latch)
}
