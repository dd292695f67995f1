package shiftdisplay

import (
	"github.com/pkg/errors"

	"dscheirer.com/shiftclock/sevenseg"
)

type section struct {
	begin, length int
}

// sectionsFor lays the requested lengths out back to back. Lengths past
// sevenseg.MaxCells are cut: the last section that fits is shortened and
// any later ones dropped.
func sectionsFor(lengths []int) ([]section, int, error) {
	if len(lengths) == 0 {
		return nil, 0, errors.New("shiftdisplay: no sections")
	}
	for i, n := range lengths {
		if n <= 0 {
			return nil, 0, errors.Errorf("shiftdisplay: section %d has length %d", i, n)
		}
	}

	var secs []section
	begin := 0
	for _, n := range lengths {
		if begin >= sevenseg.MaxCells {
			break
		}
		if begin+n > sevenseg.MaxCells {
			n = sevenseg.MaxCells - begin
		}
		secs = append(secs, section{begin: begin, length: n})
		begin += n
	}
	return secs, begin, nil
}

// buffer holds the cells as they go on the wire. Every write goes through
// commit, which is the only place polarity is applied.
type buffer struct {
	cells    []byte
	sections []section
	anode    bool
}

func newBuffer(secs []section, size int, anode bool) *buffer {
	b := &buffer{cells: make([]byte, size), sections: secs, anode: anode}
	for i := range b.cells {
		b.cells[i] = b.commit(sevenseg.Blank)
	}
	return b
}

// commit converts between raw (common cathode) and wire form. It is its
// own inverse.
func (b *buffer) commit(code byte) byte {
	if b.anode {
		return ^code
	}
	return code
}

func (b *buffer) section(s int) (section, bool) {
	if s < 0 || s >= len(b.sections) {
		return section{}, false
	}
	return b.sections[s], true
}

func (b *buffer) all() section {
	return section{begin: 0, length: len(b.cells)}
}

// replaceSection is a no-op unless codes covers the section exactly.
func (b *buffer) replaceSection(sec section, codes []byte) bool {
	if len(codes) != sec.length {
		return false
	}
	for i, c := range codes {
		b.cells[sec.begin+i] = b.commit(c)
	}
	return true
}

func (b *buffer) replaceCell(sec section, i int, code byte) bool {
	if i < 0 || i >= sec.length {
		return false
	}
	b.cells[sec.begin+i] = b.commit(code)
	return true
}

func (b *buffer) toggleDot(sec section, i int, on bool) bool {
	if i < 0 || i >= sec.length {
		return false
	}
	raw := b.commit(b.cells[sec.begin+i])
	if on {
		raw |= sevenseg.Dot
	} else {
		raw &^= sevenseg.Dot
	}
	b.cells[sec.begin+i] = b.commit(raw)
	return true
}

// raw returns a copy of the cells in common cathode form.
func (b *buffer) raw() []byte {
	out := make([]byte, len(b.cells))
	for i, c := range b.cells {
		out[i] = b.commit(c)
	}
	return out
}
