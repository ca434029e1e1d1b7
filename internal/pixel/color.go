// Package pixel provides the RGB pixel buffer the display engine draws into
// and the sinks that flush it to LED hardware (WS2812 over SPI via periph.io)
// or to a console preview.
package pixel

import "fmt"

// Color is an 8-bit per channel RGB triple.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black  = Color{}
	White  = Color{255, 255, 255}
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Blue   = Color{0, 0, 255}
	Yellow = Color{255, 255, 0}
)

// RGB builds a Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsOff reports whether every channel is zero.
func (c Color) IsOff() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Brightness returns the mean of the three channels.
func (c Color) Brightness() uint8 {
	return uint8((uint16(c.R) + uint16(c.G) + uint16(c.B)) / 3)
}

// Lighten adds delta to every channel, saturating at 255.
func (c Color) Lighten(delta uint8) Color {
	return Color{addSat(c.R, delta), addSat(c.G, delta), addSat(c.B, delta)}
}

// Darken subtracts delta from every channel, saturating at 0.
func (c Color) Darken(delta uint8) Color {
	return Color{subSat(c.R, delta), subSat(c.G, delta), subSat(c.B, delta)}
}

// Approach moves every channel at most step towards target.
func (c Color) Approach(target Color, step uint8) Color {
	return Color{
		approach(c.R, target.R, step),
		approach(c.G, target.G, step),
		approach(c.B, target.B, step),
	}
}

// Scale multiplies every channel by f, clamped to [0,1].
func (c Color) Scale(f float64) Color {
	if f <= 0 {
		return Black
	}
	if f >= 1 {
		return c
	}
	return Color{
		uint8(float64(c.R) * f),
		uint8(float64(c.G) * f),
		uint8(float64(c.B) * f),
	}
}

// Dim scales the color by level/256, the way a global LED brightness does.
func (c Color) Dim(level uint8) Color {
	l := uint16(level) + 1
	return Color{
		uint8(uint16(c.R) * l >> 8),
		uint8(uint16(c.G) * l >> 8),
		uint8(uint16(c.B) * l >> 8),
	}
}

// LinearBlend mixes a and b; progress 0 yields a, 1 yields b.
func LinearBlend(a, b Color, progress float64) Color {
	if progress <= 0 {
		return a
	}
	if progress >= 1 {
		return b
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*progress)
	}
	return Color{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B)}
}

// HSB converts a hue on a 0..255 color wheel, saturation and brightness to RGB.
func HSB(hue, sat, bri uint8) Color {
	if sat == 0 {
		return Color{bri, bri, bri}
	}
	region := hue / 43
	rem := uint16(hue-region*43) * 6

	v := uint16(bri)
	s := uint16(sat)
	p := uint8(v * (255 - s) / 255)
	q := uint8(v * (255 - s*rem/255) / 255)
	t := uint8(v * (255 - s*(255-rem)/255) / 255)
	b := uint8(v)

	switch region {
	case 0:
		return Color{b, t, p}
	case 1:
		return Color{q, b, p}
	case 2:
		return Color{p, b, t}
	case 3:
		return Color{p, q, b}
	case 4:
		return Color{t, p, b}
	default:
		return Color{b, p, q}
	}
}

func addSat(a, d uint8) uint8 {
	if a > 255-d {
		return 255
	}
	return a + d
}

func subSat(a, d uint8) uint8 {
	if a < d {
		return 0
	}
	return a - d
}

func approach(v, target, step uint8) uint8 {
	switch {
	case v < target:
		if target-v <= step {
			return target
		}
		return v + step
	case v > target:
		if v-target <= step {
			return target
		}
		return v - step
	}
	return v
}
