package main

import (
	"fmt"
	"log"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"dscheirer.com/shiftclock/shiftdisplay"
	"dscheirer.com/shiftclock/shiftreg"
)

type closeFunc func() error

func noClose() error { return nil }

// openTransport builds the transport named by the transport setting. The
// audit is set for the log and console transports.
func openTransport(s configSettings) (shiftreg.Transport, *shiftreg.Audit, closeFunc, error) {
	switch name := s.GetString(sTransport); name {
	case "rpio":
		r, err := shiftreg.OpenRPIO(shiftreg.Pins{
			Data:   s.GetInt(sDataPin),
			Clock:  s.GetInt(sClockPin),
			Latch:  s.GetInt(sLatchPin),
			Enable: s.GetInt(sEnablePin),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return r, nil, r.Close, nil
	case "spi":
		if _, err := host.Init(); err != nil {
			return nil, nil, nil, errors.Wrap(err, "host init")
		}
		p, err := spireg.Open(s.GetString(sSPIBus))
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "open spi bus %q", s.GetString(sSPIBus))
		}
		pin := fmt.Sprintf("GPIO%d", s.GetInt(sLatchPin))
		latch := gpioreg.ByName(pin)
		if latch == nil {
			p.Close()
			return nil, nil, nil, errors.Errorf("no latch pin %s", pin)
		}
		t, err := shiftreg.NewSPI(p, latch, physic.Frequency(s.GetInt(sSPIHz))*physic.Hertz)
		if err != nil {
			p.Close()
			return nil, nil, nil, err
		}
		return t, nil, p.Close, nil
	case "console", "log":
		a := &shiftreg.Audit{
			Limit:  16,
			Logger: &ThreadLogger{name: "Frames"},
			Quiet:  !s.GetBool(sDebug),
		}
		return a, a, noClose, nil
	default:
		return nil, nil, nil, errors.Errorf("unknown transport %q", name)
	}
}

func displayOpts(s configSettings, clock clockwork.Clock) *shiftdisplay.Opts {
	opts := &shiftdisplay.Opts{
		Sections:   s.GetIntList(sSections),
		Swapped:    s.GetBool(sSwapped),
		ForceClear: s.GetBool(sForceClear),
		POV:        s.GetDuration(sPOV),
		MSBFirst:   s.GetBool(sMSBFirst),
		Clock:      clock,
	}
	if s.GetBool(sCommonAnode) {
		opts.Polarity = shiftdisplay.CommonAnode
	}
	if s.GetBool(sStaticDrive) {
		opts.Drive = shiftdisplay.Static
	}
	for _, idx := range s.GetIntList(sIndexes) {
		opts.Indexes = append(opts.Indexes, byte(idx))
	}
	return opts
}

// openDisplay opens the configured transport and display on top of it.
func openDisplay(s configSettings, clock clockwork.Clock) (*shiftdisplay.Display, *shiftreg.Audit, closeFunc, error) {
	t, audit, closer, err := openTransport(s)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := shiftdisplay.New(t, displayOpts(s, clock))
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	log.Printf("Display: %v", d)
	return d, audit, closer, nil
}
