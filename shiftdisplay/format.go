package shiftdisplay

import (
	"math"
	"strconv"
)

// largest magnitude a scaled real may reach before it is treated as overflow
const maxScaled = 1e15

func formatInt(v int) []byte {
	return strconv.AppendInt(nil, int64(v), 10)
}

// formatReal rounds v to places decimals and returns its digits without the
// point, so the point belongs after character len-1-places. The result
// always holds at least places+1 digits: -0.4 with one place is "-04".
// places <= 0 rounds to an integer, with no point to draw.
func formatReal(v float64, places int) ([]byte, bool) {
	if places <= 0 {
		r := math.Round(v)
		if math.IsNaN(r) || math.Abs(r) > maxScaled {
			return nil, false
		}
		return formatInt(int(r)), true
	}

	scaled := math.Round(v * math.Pow10(places))
	if math.IsNaN(scaled) || math.Abs(scaled) > maxScaled {
		return nil, false
	}
	neg := scaled < 0
	digits := strconv.AppendInt(nil, int64(math.Abs(scaled)), 10)
	out := make([]byte, 0, places+2)
	if neg {
		out = append(out, '-')
	}
	for pad := places + 1 - len(digits); pad > 0; pad-- {
		out = append(out, '0')
	}
	return append(out, digits...), true
}
