package pixel

import (
	"errors"
	"fmt"
	"sync"
)

// Buffer is the linear pixel buffer the display engine draws into.
// Indices are physical strip positions; callers map matrix coordinates
// onto them.
type Buffer interface {
	// Begin prepares the underlying hardware.
	Begin() error
	// Len returns the number of pixels.
	Len() int
	// SetBrightness sets the global brightness applied on Show.
	SetBrightness(v uint8)
	// ClearTo sets every pixel to c.
	ClearTo(c Color)
	// SetPixelColor sets pixel i. Out of range indices are ignored.
	SetPixelColor(i int, c Color)
	// PixelColor returns pixel i, or Black when out of range.
	PixelColor(i int) Color
	// Show flushes the buffer to the hardware.
	Show() error
}

// Sink receives flushed frames. Frames are already brightness scaled.
type Sink interface {
	Write(frame []Color) error
	Close() error
}

// Strip is an in-memory Buffer that flushes to a Sink.
// Pixel operations are meant for a single drawing goroutine; Frame may be
// called concurrently (e.g. by a preview server).
type Strip struct {
	pixels     []Color
	scaled     []Color
	brightness uint8
	sink       Sink

	mu      sync.RWMutex
	shown   []Color
	frameID uint64
}

// NewStrip creates a Strip of n pixels. A nil sink discards frames.
func NewStrip(n int, sink Sink) (*Strip, error) {
	if n <= 0 {
		return nil, errors.New("pixel: strip length must be positive")
	}
	return &Strip{
		pixels:     make([]Color, n),
		scaled:     make([]Color, n),
		shown:      make([]Color, n),
		brightness: 255,
		sink:       sink,
	}, nil
}

// Begin is a no-op for in-memory strips; sinks are opened by their constructors.
func (s *Strip) Begin() error {
	return nil
}

// Len returns the number of pixels.
func (s *Strip) Len() int {
	return len(s.pixels)
}

// SetBrightness sets the global brightness.
func (s *Strip) SetBrightness(v uint8) {
	s.brightness = v
}

// Brightness returns the global brightness.
func (s *Strip) Brightness() uint8 {
	return s.brightness
}

// ClearTo sets every pixel to c.
func (s *Strip) ClearTo(c Color) {
	for i := range s.pixels {
		s.pixels[i] = c
	}
}

// SetPixelColor sets pixel i.
func (s *Strip) SetPixelColor(i int, c Color) {
	if i < 0 || i >= len(s.pixels) {
		return
	}
	s.pixels[i] = c
}

// PixelColor returns pixel i.
func (s *Strip) PixelColor(i int) Color {
	if i < 0 || i >= len(s.pixels) {
		return Black
	}
	return s.pixels[i]
}

// Show scales the buffer by the global brightness and writes it to the sink.
func (s *Strip) Show() error {
	s.mu.Lock()
	copy(s.shown, s.pixels)
	s.frameID++
	s.mu.Unlock()

	if s.sink == nil {
		return nil
	}
	for i, c := range s.pixels {
		s.scaled[i] = c.Dim(s.brightness)
	}
	if err := s.sink.Write(s.scaled); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Frame returns a copy of the last shown frame (before brightness scaling)
// and its sequence number.
func (s *Strip) Frame() ([]Color, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Color, len(s.shown))
	copy(out, s.shown)
	return out, s.frameID
}

// Close releases the sink.
func (s *Strip) Close() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}
