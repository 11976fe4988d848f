package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorBand holds inclusive per-channel bounds in RGB order.
type ColorBand struct {
	Lower [3]uint8
	Upper [3]uint8
}

// DefaultColorBand matches orange fish under typical tank lighting.
func DefaultColorBand() ColorBand {
	return ColorBand{
		Lower: [3]uint8{200, 50, 0},
		Upper: [3]uint8{254, 254, 254},
	}
}

// Validate checks that every lower bound is not above its upper bound.
func (b ColorBand) Validate() error {
	for c := 0; c < 3; c++ {
		if b.Lower[c] > b.Upper[c] {
			return fmt.Errorf("%w: channel %d lower %d > upper %d", ErrInvalidBand, c, b.Lower[c], b.Upper[c])
		}
	}
	return nil
}

func (b ColorBand) String() string {
	return fmt.Sprintf("[%s]-[%s]", FormatTriple(b.Lower), FormatTriple(b.Upper))
}

// ParseTriple parses "r,g,b" into three 8-bit channel values.
func ParseTriple(s string) ([3]uint8, error) {
	var out [3]uint8
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("%w: expected 3 comma separated values, got %q", ErrInvalidBand, s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return out, fmt.Errorf("%w: channel value %q out of range 0-255", ErrInvalidBand, p)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

// FormatTriple is the inverse of ParseTriple.
func FormatTriple(t [3]uint8) string {
	return fmt.Sprintf("%d,%d,%d", t[0], t[1], t[2])
}
