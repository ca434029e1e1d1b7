package display

import "github.com/flobbe/wordclock/internal/pixel"

// Index maps matrix coordinates onto a serpentine wired strip: even rows
// run left to right, odd rows right to left.
func Index(width, x, y int) int {
	if y&1 == 1 {
		return y*width + width - 1 - x
	}
	return y*width + x
}

// pathStep returns the cell after (x, y) on a clockwise walk that
// circles the outermost ring of a w×h matrix and then moves inwards one
// ring at a time. With rings > 0 only that many rings are walked. After
// the last cell the walk returns to (0, 0).
func pathStep(x, y, w, h, rings int) (int, int) {
	r := min(x, y, w-1-x, h-1-y)
	left, top, right, bottom := r, r, w-1-r, h-1-r

	switch {
	case y == top && x < right:
		return x + 1, y
	case x == right && y < bottom:
		return x, y + 1
	case y == bottom && bottom > top && x > left:
		return x - 1, y
	case x == left && right > left && y > top+1:
		return x, y - 1
	}

	n := r + 1
	if (rings == 0 || n < rings) && n <= w-1-n && n <= h-1-n {
		return n, n
	}
	return 0, 0
}

func (e *Engine) inBounds(x, y int) bool {
	return x >= 0 && x < e.width && y >= 0 && y < e.height
}

func (e *Engine) onBorder(x, y int) bool {
	return x == 0 || y == 0 || x == e.width-1 || y == e.height-1
}

// setPixel and getPixel are the only way drawing code touches the buffer.
func (e *Engine) setPixel(x, y int, c pixel.Color) {
	if !e.inBounds(x, y) {
		return
	}
	e.buf.SetPixelColor(Index(e.width, x, y), c)
}

func (e *Engine) getPixel(x, y int) pixel.Color {
	if !e.inBounds(x, y) {
		return pixel.Black
	}
	return e.buf.PixelColor(Index(e.width, x, y))
}

func (e *Engine) fill(c pixel.Color) {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.setPixel(x, y, c)
		}
	}
}

func (e *Engine) drawBorder(c pixel.Color) {
	x, y := 0, 0
	for {
		e.setPixel(x, y, c)
		if x, y = pathStep(x, y, e.width, e.height, 1); x == 0 && y == 0 {
			return
		}
	}
}
