package sevenseg

import "strings"

// Rows is the height of a rendered digit.
const Rows = 5

// Render draws codes (common cathode form) as text, one string per row.
// "0" followed by "7." comes out as:
//
//	 -   -
//	| |   |
//
//	| |   |
//	 -     .
//
// Every cell is four columns wide, the fourth holding the dot.
func Render(codes []byte) []string {
	var rows [Rows]strings.Builder
	for _, c := range codes {
		rows[0].WriteString(bar(c, SegA))
		rows[0].WriteByte(' ')
		rows[1].WriteString(sides(c, SegF, SegB))
		rows[1].WriteByte(' ')
		rows[2].WriteString(bar(c, SegG))
		rows[2].WriteByte(' ')
		rows[3].WriteString(sides(c, SegE, SegC))
		rows[3].WriteByte(' ')
		rows[4].WriteString(bar(c, SegD))
		if c&SegDP != 0 {
			rows[4].WriteByte('.')
		} else {
			rows[4].WriteByte(' ')
		}
	}
	out := make([]string, Rows)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}

func bar(c, seg byte) string {
	if c&seg != 0 {
		return " - "
	}
	return "   "
}

func sides(c, left, right byte) string {
	line := []byte("   ")
	if c&left != 0 {
		line[0] = '|'
	}
	if c&right != 0 {
		line[2] = '|'
	}
	return string(line)
}
