// Package gpio provides single-pin GPIO input and output with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device. The fakes allow testing without hardware.
package gpio

// Reader samples one input line.
type Reader interface {
	// Read returns the logical level of the line. Active-low lines are
	// inverted, so true always means "carrier pulse" for a DCF77 receiver.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Output drives one output line.
type Output interface {
	Set(on bool) error
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	PinDCF77 = 17 // DCF77 receiver data output
	PinBlink = 27 // status LED
)

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"
