package pixel

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// DefaultSPIFreq drives WS2812B strips at 800kHz, three SPI bits per data bit.
const DefaultSPIFreq = 2500 * physic.KiloHertz

// DrawerSink writes frames to a periph display.Drawer as a single row image.
type DrawerSink struct {
	drawer display.Drawer
	port   spi.PortCloser
	img    *image.NRGBA
}

// NewDrawerSink wraps an already opened drawer for a strip of n pixels.
func NewDrawerSink(d display.Drawer, n int) *DrawerSink {
	return &DrawerSink{
		drawer: d,
		img:    image.NewNRGBA(image.Rect(0, 0, n, 1)),
	}
}

// OpenSPI opens a WS2812B strip of n pixels on the given SPI port
// ("" selects the first available port).
func OpenSPI(dev string, n int, freq physic.Frequency) (*DrawerSink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	if freq == 0 {
		freq = DefaultSPIFreq
	}
	opts := nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      freq,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("init nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		p.Close()
		return nil, fmt.Errorf("halt nrzled: %w", err)
	}
	s := NewDrawerSink(d, n)
	s.port = p
	return s, nil
}

// OpenConsole renders frames as ANSI colored blocks on the terminal.
func OpenConsole(n int) *DrawerSink {
	return NewDrawerSink(screen.New(n), n)
}

// Write draws frame onto the device.
func (s *DrawerSink) Write(frame []Color) error {
	w := s.img.Rect.Dx()
	for x := 0; x < w && x < len(frame); x++ {
		c := frame[x]
		s.img.SetNRGBA(x, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{})
}

// Close turns the LEDs off and releases the port.
func (s *DrawerSink) Close() error {
	var errs []error
	if err := s.drawer.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt: %w", err))
	}
	if s.port != nil {
		if err := s.port.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close spi: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
