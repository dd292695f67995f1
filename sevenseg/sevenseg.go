// Package sevenseg holds the character encoding for seven segment digits
// driven through 74HC595 style shift registers.
//
// Codes are in abcdefgp order: segment A is bit 7, G is bit 1 and the
// decimal point is bit 0. They are the common cathode form; common anode
// wiring stores the bitwise inverse.
package sevenseg

// positions of segments
const (
	SegA  byte = 1 << 7
	SegB  byte = 1 << 6
	SegC  byte = 1 << 5
	SegD  byte = 1 << 4
	SegE  byte = 1 << 3
	SegF  byte = 1 << 2
	SegG  byte = 1 << 1
	SegDP byte = 1 << 0
)

// symbols outside of digits and letters
const (
	Blank         byte = 0x00
	Dot           byte = SegDP
	Minus         byte = SegG
	Underscore    byte = SegD
	Quotation     byte = SegB | SegF
	Exclamation   byte = SegB | SegC | SegDP
	Interrogation byte = SegA | SegB | SegE | SegG | SegDP
)

// MaxCells is the number of cells the default select table can address.
const MaxCells = 8

var digitValues = [10]byte{
	0xFC, // 0
	0x60, // 1
	0xDA, // 2
	0xF2, // 3
	0x66, // 4
	0xB6, // 5
	0xBE, // 6
	0xE0, // 7
	0xFE, // 8
	0xE6, // 9
}

var letterValues = [26]byte{
	0xEE, // a
	0x3E, // b
	0x9C, // c
	0x7A, // d
	0x9E, // e
	0x8E, // f
	0xBC, // g
	0x6E, // h
	0x0C, // i
	0x78, // j
	0xAE, // k
	0x1C, // l
	0xEC, // m
	0x2A, // n
	0x3A, // o
	0xCE, // p
	0xE6, // q
	0x8C, // r
	0xB6, // s
	0x1E, // t
	0x38, // u
	0x7C, // v
	0x7E, // w
	0x6C, // x
	0x76, // y
	0xDA, // z
}

// select codes for each cell of a multiplexed display, common anode form
var indexValues = [MaxCells]byte{
	0x80,
	0x40,
	0x20,
	0x10,
	0x08,
	0x04,
	0x02,
	0x01,
}

// Encode translates a character to its segment code. Letters are case
// insensitive; anything without a glyph is blank.
func Encode(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return digitValues[c-'0']
	case c >= 'a' && c <= 'z':
		return letterValues[c-'a']
	case c >= 'A' && c <= 'Z':
		return letterValues[c-'A']
	}
	switch c {
	case '-':
		return Minus
	case '_':
		return Underscore
	case '"', '\'':
		return Quotation
	case '!':
		return Exclamation
	case '?':
		return Interrogation
	case '.':
		return Dot
	}
	return Blank
}

// Decode is the inverse of Encode for the segment bits of code, ignoring the
// dot. Digits win over glyphs they share ('5' and 's', '9' and 'q', '1' and
// the bar of '!').
func Decode(code byte) (byte, bool) {
	code &^= SegDP
	for i, v := range digitValues {
		if v == code {
			return '0' + byte(i), true
		}
	}
	for i, v := range letterValues {
		if v == code {
			return 'a' + byte(i), true
		}
	}
	switch code {
	case Blank:
		return ' ', true
	case Minus:
		return '-', true
	case Underscore:
		return '_', true
	case Quotation:
		return '"', true
	case SegA | SegB | SegE | SegG:
		return '?', true
	}
	return 0, false
}

// Index returns the default select code of cell i, or zero when i is out of
// the table.
func Index(i int) byte {
	if i < 0 || i >= MaxCells {
		return 0
	}
	return indexValues[i]
}

// Indexes returns a copy of the default select table.
func Indexes() []byte {
	out := make([]byte, MaxCells)
	copy(out, indexValues[:])
	return out
}
