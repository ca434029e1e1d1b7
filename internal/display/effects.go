package display

import "github.com/flobbe/wordclock/internal/pixel"

const (
	randomInterval = 20
	snakeInterval  = 30
	snakeHueStep   = 2
	snakeDecay     = 0.8

	fadeInStep  = 50
	fadeOutStep = 10
)

// routine draws at most one frame and reports whether the effect has
// finished.
type routine func(e *Engine, now uint32) (bool, error)

var splashRoutines = [...]routine{
	SplashRandom:      (*Engine).splashRandom,
	SplashSnake:       (*Engine).splashSnake,
	SplashSnakeFilled: (*Engine).splashSnakeFilled,
}

var transitionRoutines = [...]routine{
	TransitionFade:    (*Engine).transitionFade,
	TransitionSetHard: (*Engine).transitionSetHard,
}

type randomState struct {
	last uint32
}

type snakeState struct {
	last uint32
	x, y int
	hue  uint8
}

type fadeState struct {
	last uint32
}

// splashRandom lights one random dark cell per frame. When the picked cell
// is already lit it scans forward in row order, wrapping around.
func (e *Engine) splashRandom(now uint32) (bool, error) {
	if now-e.random.last <= randomInterval {
		return false, nil
	}
	e.random.last = now

	n := e.width * e.height
	x := e.rnd.Intn(e.width)
	y := e.rnd.Intn(e.height)
	start := y*e.width + x
	k := start
	full := false
	for !e.getPixel(k%e.width, k/e.width).IsOff() {
		k = (k + 1) % n
		if k == start {
			full = true
			break
		}
	}
	if !full {
		e.setPixel(k%e.width, k/e.width, e.wordColor)
		full = e.allLit()
	}
	return full, e.buf.Show()
}

func (e *Engine) allLit() bool {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if e.getPixel(x, y).IsOff() {
				return false
			}
		}
	}
	return true
}

// splashSnake moves a colored head along the ring walk while the trail
// decays behind it.
func (e *Engine) splashSnake(now uint32) (bool, error) {
	s := &e.snake
	if now-s.last <= snakeInterval {
		return false, nil
	}
	s.last = now

	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if c := e.getPixel(x, y); !c.IsOff() {
				e.setPixel(x, y, c.Scale(snakeDecay))
			}
		}
	}
	e.setPixel(s.x, s.y, pixel.HSB(s.hue, 255, 255))
	s.hue += snakeHueStep
	s.x, s.y = pathStep(s.x, s.y, e.width, e.height, e.cfg.SnakeRings)

	return s.x == 0 && s.y == 0, e.buf.Show()
}

// splashSnakeFilled grows a rainbow along the ring walk without erasing
// the body.
func (e *Engine) splashSnakeFilled(now uint32) (bool, error) {
	s := &e.filled
	if now-s.last <= snakeInterval {
		return false, nil
	}
	s.last = now

	s.x, s.y = pathStep(s.x, s.y, e.width, e.height, e.cfg.SnakeRings)
	s.hue += snakeHueStep

	hue := s.hue
	x, y := 0, 0
	for x != s.x || y != s.y {
		e.setPixel(x, y, pixel.HSB(hue, 255, 255))
		hue -= snakeHueStep
		x, y = pathStep(x, y, e.width, e.height, e.cfg.SnakeRings)
	}

	return s.x == 0 && s.y == 0, e.buf.Show()
}

// transitionFade moves every cell towards its target color: lit cells
// quickly, dark cells slowly. It finishes once every cell has arrived.
func (e *Engine) transitionFade(now uint32) (bool, error) {
	if now == e.fade.last {
		return false, nil
	}
	e.fade.last = now

	done := true
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			target, step := pixel.Black, uint8(fadeOutStep)
			if e.frame.IsSet(x, y) {
				target, step = e.wordColor, fadeInStep
			}
			c := e.getPixel(x, y).Approach(target, step)
			e.setPixel(x, y, c)
			if c != target {
				done = false
			}
		}
	}
	e.drawSeconds(now)
	return done, e.buf.Show()
}

// transitionSetHard jumps straight to the target frame.
func (e *Engine) transitionSetHard(now uint32) (bool, error) {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if e.frame.IsSet(x, y) {
				e.setPixel(x, y, e.wordColor)
			} else {
				e.setPixel(x, y, pixel.Black)
			}
		}
	}
	e.drawSeconds(now)
	return true, e.buf.Show()
}
