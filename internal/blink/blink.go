// Package blink toggles a status LED to show the main loop is alive.
package blink

import (
	"fmt"

	"github.com/flobbe/wordclock/internal/clock"
	"github.com/flobbe/wordclock/internal/gpio"
)

// DefaultInterval is the toggle period in milliseconds.
const DefaultInterval = 500

// Blinker toggles an output every interval. Like the display engine it is
// driven by Update from the main loop and never blocks.
type Blinker struct {
	clock    clock.Clock
	out      gpio.Output
	interval uint32
	last     uint32
	on       bool
}

// New creates a Blinker. The output starts low.
func New(clk clock.Clock, out gpio.Output, interval uint32) *Blinker {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Blinker{clock: clk, out: out, interval: interval, last: clk.Millis()}
}

// Update toggles the output once the interval has elapsed.
func (b *Blinker) Update() error {
	now := b.clock.Millis()
	if now-b.last < b.interval {
		return nil
	}
	b.last = now
	b.on = !b.on
	if err := b.out.Set(b.on); err != nil {
		return fmt.Errorf("blink: %w", err)
	}
	return nil
}

// On reports the current output level.
func (b *Blinker) On() bool {
	return b.on
}
