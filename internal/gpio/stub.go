//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pin int, activeLow bool) (*RealReader, error) {
	return nil, errUnsupported
}

func (r *RealReader) Read() (bool, error) { return false, errUnsupported }
func (r *RealReader) Close() error        { return nil }

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// NewRealOutput returns an error on non-Linux platforms.
func NewRealOutput(chipName string, pin int) (*RealOutput, error) {
	return nil, errUnsupported
}

func (o *RealOutput) Set(on bool) error { return errUnsupported }
func (o *RealOutput) Close() error      { return nil }
