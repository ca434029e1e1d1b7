// Package clock provides the monotonic millisecond clock used by the
// cooperative scheduler. Readings wrap at 2^32; callers compute elapsed
// time with unsigned subtraction (now - last) so a wrap yields a correct
// delta.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock returns milliseconds since an arbitrary monotonic origin.
type Clock interface {
	Millis() uint32
}

// System reads the process monotonic clock.
type System struct {
	start time.Time
}

// NewSystem creates a System clock whose origin is now.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Millis returns milliseconds since the clock was created, truncated to 32 bits.
func (s *System) Millis() uint32 {
	return uint32(time.Since(s.start).Milliseconds())
}

// Fake is a manually driven clock for tests.
type Fake struct {
	ms atomic.Uint32
}

// NewFake creates a Fake clock starting at ms.
func NewFake(ms uint32) *Fake {
	f := &Fake{}
	f.ms.Store(ms)
	return f
}

// Millis returns the current fake reading.
func (f *Fake) Millis() uint32 {
	return f.ms.Load()
}

// Set moves the clock to ms.
func (f *Fake) Set(ms uint32) {
	f.ms.Store(ms)
}

// Advance moves the clock forward by d milliseconds, wrapping at 2^32.
func (f *Fake) Advance(d uint32) {
	f.ms.Add(d)
}
