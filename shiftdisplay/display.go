// Package shiftdisplay drives seven segment LED displays wired through a
// chain of shift registers.
//
// Values are formatted, laid out in a section of the display and encoded
// into a buffer of cells. Nothing reaches the LEDs until Update or Show
// pushes the buffer through the Transport. A multiplexed display has one
// register for segments and one for digit selects and must be scanned
// continuously; a static display has one register per digit and holds
// whatever frame was last latched.
//
//	d, err := shiftdisplay.New(t, &shiftdisplay.Opts{Sections: []int{2, 2}})
//	d.SetIntAt(0, 12, shiftdisplay.AlignDefault, false)
//	d.SetTextAt(1, "on", shiftdisplay.AlignDefault)
//	d.Show(time.Second)
//
// Bad section or cell indexes are ignored. Setters return false when the
// value did not fit its section; the truncated value is still drawn.
//
// A Display is not safe for concurrent use.
package shiftdisplay

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"dscheirer.com/shiftclock/sevenseg"
	"dscheirer.com/shiftclock/shiftreg"
)

// Polarity is how the LEDs of a digit share their common line.
type Polarity int

const (
	CommonCathode Polarity = iota
	CommonAnode
)

func (p Polarity) String() string {
	if p == CommonAnode {
		return "common anode"
	}
	return "common cathode"
}

// Drive is how digits are fed from the registers.
type Drive int

const (
	// Multiplexed shares one segment register across all digits, selecting
	// one digit at a time through a second register.
	Multiplexed Drive = iota
	// Static gives each digit its own segment register.
	Static
)

func (d Drive) String() string {
	if d == Static {
		return "static"
	}
	return "multiplexed"
}

// DefaultPOV is the time each digit stays lit during a scan.
const DefaultPOV = time.Millisecond

// Opts is the configuration for a Display.
type Opts struct {
	Polarity Polarity
	Drive    Drive

	// Size is the cell count of a single section display. Sections, when
	// set, takes precedence and lists section lengths in display order.
	Size     int
	Sections []int

	// Multiplexed only
	Indexes    []byte        // select codes per cell, common anode form; default sevenseg.Indexes
	Swapped    bool          // segment register comes first in the chain
	ForceClear bool          // clear before every cell, for modules that ghost
	POV        time.Duration // per cell time slice, default DefaultPOV

	MSBFirst bool            // shift codes MSB first instead of LSB first
	Clock    clockwork.Clock // default real clock
}

// Display is a seven segment display behind a shift register chain.
type Display struct {
	t     shiftreg.Transport
	buf   *buffer
	drive Drive

	// wire form
	indexes []byte
	blank   byte

	swapped    bool
	forceClear bool
	pov        time.Duration
	order      shiftreg.BitOrder
	clock      clockwork.Clock

	// longest scanning pass and longest single frame seen
	pass time.Duration
	cost time.Duration
}

// New creates a display sending frames through t. opts can be nil for a
// four digit common cathode multiplexed display. The cells start blank,
// call Clear to blank the hardware as well.
func New(t shiftreg.Transport, opts *Opts) (*Display, error) {
	if t == nil {
		return nil, errors.New("shiftdisplay: transport is required")
	}
	if opts == nil {
		opts = &Opts{Size: 4}
	}

	lengths := opts.Sections
	if len(lengths) == 0 && opts.Size != 0 {
		lengths = []int{opts.Size}
	}
	secs, size, err := sectionsFor(lengths)
	if err != nil {
		return nil, err
	}
	if opts.POV < 0 {
		return nil, errors.Errorf("shiftdisplay: negative POV %v", opts.POV)
	}
	if opts.Polarity != CommonCathode && opts.Polarity != CommonAnode {
		return nil, errors.Errorf("shiftdisplay: unknown polarity %d", opts.Polarity)
	}
	if opts.Drive != Multiplexed && opts.Drive != Static {
		return nil, errors.Errorf("shiftdisplay: unknown drive %d", opts.Drive)
	}

	anode := opts.Polarity == CommonAnode
	d := &Display{
		t:          t,
		buf:        newBuffer(secs, size, anode),
		drive:      opts.Drive,
		swapped:    opts.Swapped,
		forceClear: opts.ForceClear,
		pov:        opts.POV,
		order:      shiftreg.LSBFirst,
		clock:      opts.Clock,
	}
	d.blank = d.buf.commit(sevenseg.Blank)
	if opts.MSBFirst {
		d.order = shiftreg.MSBFirst
	}
	if d.pov == 0 {
		d.pov = DefaultPOV
	}
	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}

	if d.drive == Multiplexed {
		d.indexes = make([]byte, size)
		for i := range d.indexes {
			idx := sevenseg.Index(i)
			if i < len(opts.Indexes) {
				idx = opts.Indexes[i]
			}
			// a digit is selected by driving its common line to the
			// opposite of its segments
			if !anode {
				idx = ^idx
			}
			d.indexes[i] = idx
		}
	}
	return d, nil
}

// Len is the number of cells.
func (d *Display) Len() int {
	return len(d.buf.cells)
}

// Sections returns the section lengths after capping.
func (d *Display) Sections() []int {
	out := make([]int, len(d.buf.sections))
	for i, s := range d.buf.sections {
		out[i] = s.length
	}
	return out
}

func (d *Display) Drive() Drive {
	return d.drive
}

// Codes returns the buffer in common cathode form: a set bit is a lit
// segment whatever the wiring.
func (d *Display) Codes() []byte {
	return d.buf.raw()
}

func (d *Display) String() string {
	return fmt.Sprintf("shiftdisplay.Display{%s %s, sections:%v, %v}",
		d.drive, polarityOf(d.buf.anode), d.Sections(), d.t)
}

func polarityOf(anode bool) Polarity {
	if anode {
		return CommonAnode
	}
	return CommonCathode
}

func (d *Display) setNumber(sec section, chars []byte, places int, align Alignment, zeros bool) bool {
	win := layout(chars, sec.length, align.or(AlignRight), places, zeros)
	d.buf.replaceSection(sec, encode(win))
	return win.ok
}

func (d *Display) setText(sec section, chars []byte, align Alignment) bool {
	win := layout(chars, sec.length, align.or(AlignLeft), -1, false)
	d.buf.replaceSection(sec, encode(win))
	return win.ok
}

// overflow fills the section with minus signs.
func (d *Display) overflow(sec section) bool {
	codes := make([]byte, sec.length)
	for i := range codes {
		codes[i] = sevenseg.Minus
	}
	d.buf.replaceSection(sec, codes)
	return false
}

func (d *Display) setInt(sec section, v int, align Alignment, zeros bool) bool {
	return d.setNumber(sec, formatInt(v), -1, align, zeros)
}

func (d *Display) setReal(sec section, v float64, places int, align Alignment, zeros bool) bool {
	chars, ok := formatReal(v, places)
	if !ok {
		return d.overflow(sec)
	}
	if places <= 0 {
		places = -1
	}
	return d.setNumber(sec, chars, places, align, zeros)
}

func (d *Display) setCharsDots(sec section, chars string, dots []bool, align Alignment) bool {
	win := layout([]byte(chars), sec.length, align.or(AlignLeft), -1, false)
	d.buf.replaceSection(sec, encodeDots(win, dots))
	return win.ok && len(dots) <= len(chars)
}

// SetInt shows v on the whole display. zeros pads a right aligned number
// with leading zeros.
func (d *Display) SetInt(v int, align Alignment, zeros bool) bool {
	return d.setInt(d.buf.all(), v, align, zeros)
}

// SetIntAt is SetInt on section s.
func (d *Display) SetIntAt(s int, v int, align Alignment, zeros bool) bool {
	sec, ok := d.buf.section(s)
	if !ok {
		return false
	}
	return d.setInt(sec, v, align, zeros)
}

// SetReal shows v rounded to places decimals. places <= 0 shows an
// integer. A value too large to format fills the display with minus signs.
func (d *Display) SetReal(v float64, places int, align Alignment, zeros bool) bool {
	return d.setReal(d.buf.all(), v, places, align, zeros)
}

func (d *Display) SetRealAt(s int, v float64, places int, align Alignment, zeros bool) bool {
	sec, ok := d.buf.section(s)
	if !ok {
		return false
	}
	return d.setReal(sec, v, places, align, zeros)
}

func (d *Display) SetChar(c byte, align Alignment) bool {
	return d.setText(d.buf.all(), []byte{c}, align)
}

func (d *Display) SetCharAt(s int, c byte, align Alignment) bool {
	sec, ok := d.buf.section(s)
	if !ok {
		return false
	}
	return d.setText(sec, []byte{c}, align)
}

// SetText shows text; characters without a glyph are blank.
func (d *Display) SetText(text string, align Alignment) bool {
	return d.setText(d.buf.all(), []byte(text), align)
}

func (d *Display) SetTextAt(s int, text string, align Alignment) bool {
	sec, ok := d.buf.section(s)
	if !ok {
		return false
	}
	return d.setText(sec, []byte(text), align)
}

// SetCodes replaces every cell with raw common cathode codes. It does
// nothing and returns false unless there is exactly one code per cell.
func (d *Display) SetCodes(codes []byte) bool {
	return d.buf.replaceSection(d.buf.all(), codes)
}

func (d *Display) SetCodesAt(s int, codes []byte) bool {
	sec, ok := d.buf.section(s)
	if !ok {
		return false
	}
	return d.buf.replaceSection(sec, codes)
}

// SetCharsDots shows chars with the dot lit after every character whose
// flag in dots is set.
func (d *Display) SetCharsDots(chars string, dots []bool, align Alignment) bool {
	return d.setCharsDots(d.buf.all(), chars, dots, align)
}

func (d *Display) SetCharsDotsAt(s int, chars string, dots []bool, align Alignment) bool {
	sec, ok := d.buf.section(s)
	if !ok {
		return false
	}
	return d.setCharsDots(sec, chars, dots, align)
}

// SetDot lights or clears the dot of cell i, keeping its segments.
func (d *Display) SetDot(i int, on bool) {
	d.buf.toggleDot(d.buf.all(), i, on)
}

// SetDotAt is SetDot on cell i of section s.
func (d *Display) SetDotAt(s, i int, on bool) {
	if sec, ok := d.buf.section(s); ok {
		d.buf.toggleDot(sec, i, on)
	}
}

// SetCustom puts a raw common cathode code in cell i.
func (d *Display) SetCustom(i int, code byte) {
	d.buf.replaceCell(d.buf.all(), i, code)
}

func (d *Display) SetCustomAt(s, i int, code byte) {
	if sec, ok := d.buf.section(s); ok {
		d.buf.replaceCell(sec, i, code)
	}
}
