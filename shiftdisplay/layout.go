package shiftdisplay

// Alignment places a value inside its section.
type Alignment int

const (
	// AlignDefault is right for numbers and left for text.
	AlignDefault Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	}
	return "default"
}

func (a Alignment) or(def Alignment) Alignment {
	if a == AlignDefault {
		return def
	}
	return a
}

// window is a value laid out over a section: chars[i] goes to cell i.
type window struct {
	chars []byte
	// span of the value, possibly outside [0, len(chars))
	left, right int
	// cell carrying the decimal point, -1 for none
	point int
	// false when characters or the point were dropped
	ok bool
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// layout places chars in a window of w cells. Characters falling outside
// the window are dropped, so a right aligned value loses its most
// significant side. places >= 0 asks for a point after the character
// places from the right. zeros fills the left of a right aligned value with
// '0', keeping a minus sign in the first cell.
func layout(chars []byte, w int, align Alignment, places int, zeros bool) window {
	n := len(chars)
	win := window{chars: make([]byte, w), point: -1, ok: n <= w}

	switch align {
	case AlignRight:
		win.left = w - n
	case AlignCenter:
		win.left = floorDiv(w-n, 2)
	default:
		win.left = 0
	}
	win.right = win.left + n - 1

	for i := range win.chars {
		win.chars[i] = ' '
	}
	for i, c := range chars {
		if p := win.left + i; p >= 0 && p < w {
			win.chars[p] = c
		}
	}

	if zeros && align == AlignRight && n > 0 && win.left > 0 {
		for i := 0; i < win.left; i++ {
			win.chars[i] = '0'
		}
		if chars[0] == '-' {
			win.chars[0] = '-'
			win.chars[win.left] = '0'
		}
	}

	if places >= 0 {
		p := win.right - places
		if p < 0 || p >= w {
			win.ok = false
		} else {
			win.point = p
		}
	}
	return win
}
