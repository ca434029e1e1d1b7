// Package wordframe maps a time of day to the set of matrix cells that
// spell it as a sentence on a word clock.
//
// A Frame stores one bit mask per matrix row. Grammars decide which Words
// to light; the German grammar covers the common 13x11 front plate.
package wordframe

import (
	"errors"
	"fmt"
)

// rowBits is the bit width of a row mask.
const rowBits = 16

var (
	// ErrGeometry is returned when the matrix cannot be represented by row masks.
	ErrGeometry = errors.New("wordframe: matrix too wide for row mask")

	// ErrOutOfRange is returned for hours outside 0..11 or minutes outside 0..59.
	ErrOutOfRange = errors.New("wordframe: time out of range")
)

// Word is a horizontal run of cells spelling one token.
type Word struct {
	X, Y, Len int
}

// Frame is a per-row bit mask of lit cells.
type Frame struct {
	width  int
	height int
	rows   []uint16
}

// NewFrame creates an empty frame. The width must be strictly less than the
// row mask width.
func NewFrame(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGeometry, width, height)
	}
	if width >= rowBits {
		return nil, fmt.Errorf("%w: width %d, limit %d", ErrGeometry, width, rowBits-1)
	}
	return &Frame{
		width:  width,
		height: height,
		rows:   make([]uint16, height),
	}, nil
}

// Width returns the number of columns.
func (f *Frame) Width() int { return f.width }

// Height returns the number of rows.
func (f *Frame) Height() int { return f.height }

// Clear turns every cell off.
func (f *Frame) Clear() {
	for i := range f.rows {
		f.rows[i] = 0
	}
}

// Set lights the cells covered by w. Words outside the frame are clipped.
func (f *Frame) Set(w Word) *Frame {
	if w.Y < 0 || w.Y >= f.height || w.Len <= 0 || w.X < 0 || w.X >= f.width {
		return f
	}
	bits := uint16(1)<<uint(w.Len) - 1
	f.rows[w.Y] |= (bits << uint(w.X)) & f.rowMask()
	return f
}

// IsSet reports whether cell (x,y) is lit. Out of range cells are unlit.
func (f *Frame) IsSet(x, y int) bool {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return false
	}
	return (f.rows[y]>>uint(x))&1 == 1
}

// Contains reports whether every cell of w is lit.
func (f *Frame) Contains(w Word) bool {
	for x := w.X; x < w.X+w.Len; x++ {
		if !f.IsSet(x, w.Y) {
			return false
		}
	}
	return w.Len > 0
}

// Equal reports whether both frames light the same cells.
func (f *Frame) Equal(o *Frame) bool {
	if o == nil || f.width != o.width || f.height != o.height {
		return false
	}
	for i := range f.rows {
		if f.rows[i] != o.rows[i] {
			return false
		}
	}
	return true
}

// Count returns the number of lit cells.
func (f *Frame) Count() int {
	n := 0
	for _, r := range f.rows {
		for ; r != 0; r &= r - 1 {
			n++
		}
	}
	return n
}

// FromTime rebuilds the frame for hour (0..11) and minute (0..59) using g.
func (f *Frame) FromTime(g Grammar, hour, minute int) error {
	if hour < 0 || hour > 11 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrOutOfRange, hour, minute)
	}
	f.Clear()
	g.Compose(hour, minute, func(w Word) { f.Set(w) })
	return nil
}

// String renders the frame as rows of '#' and '.'.
func (f *Frame) String() string {
	b := make([]byte, 0, (f.width+1)*f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.IsSet(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}

func (f *Frame) rowMask() uint16 {
	return uint16(1)<<uint(f.width) - 1
}
