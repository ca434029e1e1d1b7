package display

import (
	"math"

	"github.com/flobbe/wordclock/internal/pixel"
)

const (
	// handLength reaches far beyond the matrix so the hand always
	// crosses the border.
	handLength = 1500
	// handShade is how much a lit phrase cell darkens under the hand.
	handShade = 0.7
	handRed   = 100

	// countdownHold is the number of seconds the countdown shows 00.
	countdownHold = 10
)

var (
	digitColor      = pixel.RGB(0, 0, 100)
	digitOnWord     = pixel.RGB(105, 105, 255)
	countdownColor  = pixel.RGB(200, 0, 0)
	countdownOnWord = pixel.RGB(255, 5, 5)
)

const (
	glyphWidth  = 5
	glyphHeight = 9
)

// font holds 5×9 digit glyphs; bit 4 of each row is the leftmost column.
var font = [10][glyphHeight]uint8{
	{0b01110, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b10001, 0b01110},
	{0b00110, 0b01010, 0b10010, 0b00010, 0b00010, 0b00010, 0b00010, 0b00010, 0b00010},
	{0b01110, 0b10001, 0b00001, 0b00001, 0b01110, 0b10000, 0b10000, 0b10000, 0b11111},
	{0b11110, 0b00001, 0b00001, 0b00001, 0b01110, 0b00001, 0b00001, 0b00001, 0b11110},
	{0b10001, 0b10001, 0b10001, 0b10001, 0b01111, 0b00001, 0b00001, 0b00001, 0b00001},
	{0b11111, 0b10000, 0b10000, 0b10000, 0b01110, 0b00001, 0b00001, 0b10001, 0b01110},
	{0b01110, 0b10001, 0b10000, 0b10000, 0b11110, 0b10001, 0b10001, 0b10001, 0b01110},
	{0b11111, 0b00001, 0b00001, 0b00010, 0b00010, 0b00100, 0b00100, 0b01000, 0b01000},
	{0b01110, 0b10001, 0b10001, 0b10001, 0b01110, 0b10001, 0b10001, 0b10001, 0b01110},
	{0b01110, 0b10001, 0b10001, 0b10001, 0b01111, 0b00001, 0b00001, 0b10001, 0b01110},
}

func (e *Engine) drawSeconds(now uint32) {
	switch e.secondsMode {
	case SecondsHand, SecondsDot:
		e.drawSecondHand(now)
	case SecondsDigits, SecondsCountdown:
		e.drawSecondDigits()
	}
}

// drawSecondHand draws an anti-aliased line from the matrix center
// towards the current sub-second angle. In dot mode only the border
// cells of the line are drawn.
func (e *Engine) drawSecondHand(now uint32) {
	ms := (now - e.phaseOffset) % 1000
	angle := (float64(e.second) + float64(ms)/1000) * 2 * math.Pi / 60

	x0, y0 := float64(e.width/2), float64(e.height/2)
	x1 := x0 + handLength*math.Sin(angle)
	y1 := y0 - handLength*math.Cos(angle)
	e.wuLine(x0, y0, x1, y1)
}

func (e *Engine) plotHand(x, y int, val float64) {
	if !e.inBounds(x, y) {
		return
	}
	if e.secondsMode == SecondsDot && !e.onBorder(x, y) {
		return
	}
	if e.frame.IsSet(x, y) {
		e.setPixel(x, y, e.getPixel(x, y).Scale(1-handShade*val))
		return
	}
	e.setPixel(x, y, pixel.RGB(uint8(handRed*val), 0, 0))
}

// wuLine is Xiaolin Wu's anti-aliased line algorithm.
func (e *Engine) wuLine(x0, y0, x1, y1 float64) {
	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	plot := func(x, y int, val float64) {
		if steep {
			x, y = y, x
		}
		e.plotHand(x, y, val)
	}

	dx, dy := x1-x0, y1-y0
	gradient := 1.0
	if dx != 0 {
		gradient = dy / dx
	}

	// first endpoint
	xend := math.Round(x0)
	yend := y0 + gradient*(xend-x0)
	xgap := rfpart(x0 + 0.5)
	xpxl1, ypxl1 := int(xend), int(math.Floor(yend))
	plot(xpxl1, ypxl1, rfpart(yend)*xgap)
	plot(xpxl1, ypxl1+1, fpart(yend)*xgap)
	intery := yend + gradient

	// second endpoint
	xend = math.Round(x1)
	yend = y1 + gradient*(xend-x1)
	xgap = fpart(x1 + 0.5)
	xpxl2, ypxl2 := int(xend), int(math.Floor(yend))
	plot(xpxl2, ypxl2, rfpart(yend)*xgap)
	plot(xpxl2, ypxl2+1, fpart(yend)*xgap)

	for x := xpxl1 + 1; x < xpxl2; x++ {
		iy := int(math.Floor(intery))
		plot(x, iy, rfpart(intery))
		plot(x, iy+1, fpart(intery))
		intery += gradient
	}
}

func fpart(v float64) float64  { return v - math.Floor(v) }
func rfpart(v float64) float64 { return 1 - fpart(v) }

// drawSecondDigits renders the seconds as two digits over the phrase.
// Countdown mode shows the seconds left in the minute, holds at 00 for
// the first seconds and drops a leading zero.
func (e *Engine) drawSecondDigits() {
	value := e.second
	color, onWord := digitColor, digitOnWord
	if e.secondsMode == SecondsCountdown {
		value = 59 - e.second
		if e.second < countdownHold {
			value = 0
		}
		color, onWord = countdownColor, countdownOnWord
	}
	tens, units := value/10, value%10

	top := (e.height - glyphHeight) / 2
	if e.secondsMode == SecondsCountdown && tens == 0 {
		e.drawGlyph(units, (e.width-glyphWidth)/2, top, color, onWord)
		return
	}
	left := (e.width - 2*glyphWidth - 1) / 2
	e.drawGlyph(tens, left, top, color, onWord)
	e.drawGlyph(units, left+glyphWidth+1, top, color, onWord)
}

func (e *Engine) drawGlyph(digit, left, top int, color, onWord pixel.Color) {
	for row, bits := range font[digit] {
		for col := 0; col < glyphWidth; col++ {
			if bits&(1<<(glyphWidth-1-col)) == 0 {
				continue
			}
			x, y := left+col, top+row
			if e.frame.IsSet(x, y) {
				e.setPixel(x, y, onWord)
			} else {
				e.setPixel(x, y, color)
			}
		}
	}
}
