// Package display renders word clock frames onto an LED matrix.
//
// The Engine is a cooperative state machine: callers feed it setters
// (SetTime, ShowConnecting, ...) and call Update from their main loop.
// Every animation is rate limited against an injected clock, so Update
// never blocks and does nothing when no frame is due.
package display

import (
	"errors"
	"fmt"

	"github.com/flobbe/wordclock/internal/clock"
	"github.com/flobbe/wordclock/internal/pixel"
	"github.com/flobbe/wordclock/internal/wordframe"
)

const (
	// rotateInterval is how long the engine stays on one transition
	// while idle in TIME before switching to the next.
	rotateInterval = 2000
	okDwell        = 1000
)

// DefaultWordColor is the color of lit phrase cells.
var DefaultWordColor = pixel.White

// Config describes the matrix and the initial look.
type Config struct {
	// Grammar defaults to wordframe.German. Width and Height default to
	// the grammar's plate.
	Grammar wordframe.Grammar
	Width   int
	Height  int

	Brightness  uint8
	WordColor   pixel.Color
	SecondsMode SecondsMode
	Splash      Effect
	// SnakeRings limits the snake splash to the outer rings of the
	// matrix. Zero walks the full spiral.
	SnakeRings int
}

// Engine owns the pixel buffer and all animation state.
// It is not safe for concurrent use.
type Engine struct {
	cfg     Config
	grammar wordframe.Grammar
	buf     pixel.Buffer
	clock   clock.Clock
	rnd     Rand
	width   int
	height  int

	state       State
	needsUpdate bool
	splash      Effect
	transition  Effect
	lastRotate  uint32

	frame       *wordframe.Frame
	timeSet     bool
	hour        int
	minute      int
	second      int
	phaseOffset uint32
	secondsMode SecondsMode
	wordColor   pixel.Color

	random   randomState
	snake    snakeState
	filled   snakeState
	fade     fadeState
	spinner  spinnerState
	ok       okState
	blinker  errorState
	progress progressState
}

// New validates cfg against the buffer and returns an Engine in the
// SPLASH state. Call Setup before the first Update.
func New(cfg Config, buf pixel.Buffer, clk clock.Clock, rnd Rand) (*Engine, error) {
	if buf == nil || clk == nil || rnd == nil {
		return nil, errors.New("display: buffer, clock and rand are required")
	}
	if cfg.Grammar == nil {
		cfg.Grammar = wordframe.German
	}
	if cfg.Width == 0 {
		cfg.Width = cfg.Grammar.Width()
	}
	if cfg.Height == 0 {
		cfg.Height = cfg.Grammar.Height()
	}
	if cfg.WordColor.IsOff() {
		cfg.WordColor = DefaultWordColor
	}
	if cfg.Width*cfg.Height != buf.Len() {
		return nil, fmt.Errorf("display: %dx%d matrix needs %d pixels, buffer has %d",
			cfg.Width, cfg.Height, cfg.Width*cfg.Height, buf.Len())
	}
	frame, err := wordframe.NewFrame(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("display: %w", err)
	}
	if cfg.SnakeRings < 0 {
		return nil, fmt.Errorf("display: negative snake rings %d", cfg.SnakeRings)
	}

	e := &Engine{
		cfg:         cfg,
		grammar:     cfg.Grammar,
		buf:         buf,
		clock:       clk,
		rnd:         rnd,
		width:       cfg.Width,
		height:      cfg.Height,
		frame:       frame,
		secondsMode: cfg.SecondsMode,
		wordColor:   cfg.WordColor,
		splash:      wrapEffect(cfg.Splash, len(splashRoutines)),
		state:       StateSplash,
		needsUpdate: true,
	}
	e.enter(StateSplash, clk.Millis())
	return e, nil
}

// Setup initialises the hardware and blanks the matrix.
func (e *Engine) Setup() error {
	if err := e.buf.Begin(); err != nil {
		return fmt.Errorf("display: begin: %w", err)
	}
	e.buf.SetBrightness(e.cfg.Brightness)
	e.buf.ClearTo(pixel.Black)
	if err := e.buf.Show(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Update advances the current state's animation by at most one frame.
func (e *Engine) Update() error {
	now := e.clock.Millis()

	if !e.needsUpdate {
		if e.state == StateTime && now-e.lastRotate > rotateInterval {
			e.lastRotate = now
			e.transition = wrapEffect(e.transition+1, len(transitionRoutines))
		}
		return nil
	}

	var err error
	switch e.state {
	case StateSplash:
		var done bool
		if done, err = splashRoutines[e.splash](e, now); done {
			e.changeState(StateTime, now)
		}
	case StateTime:
		var done bool
		if done, err = transitionRoutines[e.transition](e, now); done {
			e.needsUpdate = false
			e.lastRotate = now
		}
	case StateConnecting:
		err = e.drawConnecting(now)
	case StateConnectedOK:
		err = e.drawConnectedOK(now)
	case StateConnectError:
		err = e.drawConnectError(now)
	case StateFirmwareUpdate:
		// Progress frames are drawn by SetUpdateProgress.
		e.needsUpdate = false
	}
	if err != nil {
		return fmt.Errorf("display: %s: %w", e.state, err)
	}
	return nil
}

// SetTime updates the displayed time. Out of range values wrap. Hours
// that differ only by 12 show the same face and do not dirty the engine.
func (e *Engine) SetTime(hour, minute, second int) {
	hour, minute, second = wrap(hour, 24), wrap(minute, 60), wrap(second, 60)
	if e.timeSet && hour%12 == e.hour%12 && minute == e.minute && second == e.second {
		e.hour = hour
		return
	}
	e.timeSet = true
	e.hour, e.minute, e.second = hour, minute, second
	e.phaseOffset = e.clock.Millis() % 1000
	if err := e.frame.FromTime(e.grammar, hour%12, minute); err != nil {
		// The frame is built for e.grammar and the time is wrapped above.
		panic(fmt.Sprintf("display: %v", err))
	}
	e.needsUpdate = true
}

// SetSecondsMode switches the seconds overlay.
func (e *Engine) SetSecondsMode(m SecondsMode) {
	if m < SecondsHidden || int(m) >= len(secondsModeNames) {
		m = SecondsHidden
	}
	if m == e.secondsMode {
		return
	}
	e.secondsMode = m
	e.needsUpdate = true
}

// SetSplashScreen selects a splash effect (wrapped modulo the number of
// effects) and enters SPLASH.
func (e *Engine) SetSplashScreen(effect Effect) {
	now := e.clock.Millis()
	effect = wrapEffect(effect, len(splashRoutines))
	if e.state == StateFirmwareUpdate {
		return
	}
	if e.state == StateSplash && effect != e.splash {
		e.splash = effect
		e.enter(StateSplash, now)
		e.needsUpdate = true
		return
	}
	e.splash = effect
	e.changeState(StateSplash, now)
}

// SetBrightness changes the global brightness.
func (e *Engine) SetBrightness(v uint8) {
	e.buf.SetBrightness(v)
	e.needsUpdate = true
}

// SetWordColor changes the color of lit phrase cells.
func (e *Engine) SetWordColor(c pixel.Color) {
	if c.IsOff() || c == e.wordColor {
		return
	}
	e.wordColor = c
	e.needsUpdate = true
}

func (e *Engine) ShowConnecting()   { e.changeState(StateConnecting, e.clock.Millis()) }
func (e *Engine) ShowConnectedOK()  { e.changeState(StateConnectedOK, e.clock.Millis()) }
func (e *Engine) ShowConnectError() { e.changeState(StateConnectError, e.clock.Millis()) }

// ShowTime leaves a status screen and transitions back to the clock face.
// CONNECT_ERROR is only left through ShowConnecting or ShowConnectedOK.
func (e *Engine) ShowTime() {
	if e.state == StateConnectError {
		return
	}
	e.changeState(StateTime, e.clock.Millis())
}

// Clear blanks the matrix immediately, e.g. before shutdown.
func (e *Engine) Clear() error {
	e.buf.ClearTo(pixel.Black)
	if err := e.buf.Show(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func (e *Engine) State() State             { return e.state }
func (e *Engine) SecondsMode() SecondsMode { return e.secondsMode }
func (e *Engine) Splash() Effect           { return e.splash }
func (e *Engine) Transition() Effect       { return e.transition }
func (e *Engine) NeedsUpdate() bool        { return e.needsUpdate }
func (e *Engine) WordColor() pixel.Color   { return e.wordColor }
func (e *Engine) Width() int               { return e.width }
func (e *Engine) Height() int              { return e.height }

// Frame returns the current target frame. Callers must not modify it.
func (e *Engine) Frame() *wordframe.Frame { return e.frame }

// Time returns the last time passed to SetTime.
func (e *Engine) Time() (hour, minute, second int) {
	return e.hour, e.minute, e.second
}

// changeState never leaves FIRMWARE_UPDATE.
func (e *Engine) changeState(s State, now uint32) {
	if s == e.state || e.state == StateFirmwareUpdate {
		return
	}
	e.state = s
	e.needsUpdate = true
	e.enter(s, now)
}

// enter resets the per-routine state of s.
func (e *Engine) enter(s State, now uint32) {
	switch s {
	case StateSplash:
		e.random = randomState{last: now}
		e.snake = snakeState{last: now}
		e.filled = snakeState{last: now}
	case StateTime:
		e.fade = fadeState{last: now}
		e.lastRotate = now
	case StateConnecting:
		e.spinner = spinnerState{last: now}
	case StateConnectedOK:
		e.ok = okState{since: now}
	case StateConnectError:
		e.blinker = errorState{last: now}
	case StateFirmwareUpdate:
		e.progress = progressState{}
	}
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

func wrapEffect(e Effect, n int) Effect {
	return Effect(wrap(int(e), n))
}
