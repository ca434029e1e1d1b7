package display

import (
	"fmt"

	"github.com/flobbe/wordclock/internal/pixel"
)

const (
	spinnerInterval = 100
	errorInterval   = 1000
)

var (
	spinnerTrack = pixel.RGB(20, 20, 20)
	spinnerHead  = pixel.Yellow
	okColor      = pixel.Green
)

type spinnerState struct {
	last  uint32
	x, y  int
	drawn bool
}

type okState struct {
	since uint32
	drawn bool
}

type errorState struct {
	last  uint32
	on    bool
	drawn bool
}

type progressState struct {
	pos   int
	drawn bool
}

// drawConnecting runs a spinner around the border.
func (e *Engine) drawConnecting(now uint32) error {
	s := &e.spinner
	if s.drawn {
		if now-s.last < spinnerInterval {
			return nil
		}
		s.x, s.y = pathStep(s.x, s.y, e.width, e.height, 1)
	}
	s.last = now
	s.drawn = true

	e.fill(pixel.Black)
	e.drawBorder(spinnerTrack)
	e.setPixel(s.x, s.y, spinnerHead)
	return e.buf.Show()
}

// drawConnectedOK shows a green border and returns to TIME after okDwell.
func (e *Engine) drawConnectedOK(now uint32) error {
	s := &e.ok
	if now-s.since >= okDwell {
		e.fill(pixel.Black)
		e.changeState(StateTime, now)
		return e.buf.Show()
	}
	if s.drawn {
		return nil
	}
	s.drawn = true
	e.fill(pixel.Black)
	e.drawBorder(okColor)
	return e.buf.Show()
}

// drawConnectError blinks the border between red and white with a cross
// in the opposite color.
func (e *Engine) drawConnectError(now uint32) error {
	s := &e.blinker
	if s.drawn && now-s.last < errorInterval {
		return nil
	}
	s.last = now
	s.drawn = true
	s.on = !s.on

	border, cross := pixel.Red, pixel.White
	if !s.on {
		border, cross = cross, border
	}
	e.fill(pixel.Black)
	e.drawBorder(border)
	cx, cy := e.width/2, e.height/2
	for _, d := range [...][2]int{{0, 0}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		e.setPixel(cx+d[0], cy+d[1], cross)
	}
	return e.buf.Show()
}

// SetUpdateProgress enters FIRMWARE_UPDATE and fills the matrix in row
// order proportionally to done/total, blending from red to green. A frame
// is only drawn when the number of lit cells changes.
func (e *Engine) SetUpdateProgress(done, total uint32) error {
	if total == 0 {
		return fmt.Errorf("display: update progress with zero total")
	}
	if done > total {
		done = total
	}
	e.changeState(StateFirmwareUpdate, e.clock.Millis())

	n := e.width * e.height
	pos := int(uint64(done) * uint64(n) / uint64(total))
	if e.progress.drawn && pos == e.progress.pos {
		return nil
	}
	e.progress.pos = pos
	e.progress.drawn = true

	c := pixel.LinearBlend(pixel.Red, pixel.Green, float64(done)/float64(total))
	for k := 0; k < n; k++ {
		if k <= pos {
			e.setPixel(k%e.width, k/e.width, c)
		} else {
			e.setPixel(k%e.width, k/e.width, pixel.Black)
		}
	}
	if err := e.buf.Show(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// UpdateProgress returns the number of cells lit by the last
// SetUpdateProgress call.
func (e *Engine) UpdateProgress() int {
	return e.progress.pos
}
