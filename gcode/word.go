package gcode

import (
	"strconv"
	"strings"
)

type Word struct {
	W   byte
	Arg float64
}

func (w Word) IsAxis() bool {
	switch w.W {
	case 'X', 'Y', 'Z': // maybe someday 'A', 'B', 'C', 'U', 'V', 'W':
		return true
	}
	return false
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	return strings.TrimRight(s, ".")
}

// String formats the word for the wire. Axis words always carry 3 decimal
// places, feed words are integral, everything else drops trailing zeros.
func (w Word) String() string {
	switch {
	case w.IsAxis():
		return string(w.W) + strconv.FormatFloat(w.Arg, 'f', 3, 64)
	case w.W == 'F':
		return string(w.W) + strconv.Itoa(int(w.Arg))
	}
	return string(w.W) + formatFloat(w.Arg, 3)
}
