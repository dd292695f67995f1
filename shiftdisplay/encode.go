package shiftdisplay

import "dscheirer.com/shiftclock/sevenseg"

// encode maps a laid out window to raw codes, dot included. Polarity is
// left to the buffer.
func encode(win window) []byte {
	codes := make([]byte, len(win.chars))
	for i, c := range win.chars {
		codes[i] = sevenseg.Encode(c)
	}
	if win.point >= 0 && win.point < len(codes) {
		codes[win.point] |= sevenseg.Dot
	}
	return codes
}

// encodeDots is encode with one dot flag per input character; the flags
// follow their characters through the layout.
func encodeDots(win window, dots []bool) []byte {
	codes := encode(win)
	for i, on := range dots {
		if p := win.left + i; on && p >= 0 && p < len(codes) && i <= win.right-win.left {
			codes[p] |= sevenseg.Dot
		}
	}
	return codes
}
