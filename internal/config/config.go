// Package config loads the word clock configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flobbe/wordclock/internal/display"
	"github.com/flobbe/wordclock/internal/gpio"
	"github.com/flobbe/wordclock/internal/pixel"
)

// LED drivers.
const (
	DriverSPI     = "spi"
	DriverConsole = "console"
	DriverNone    = "none"
)

type Matrix struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int64  `yaml:"speed_hz"` // e.g. 2500000
}

type DCF77 struct {
	Chip      string `yaml:"chip"`
	Pin       int    `yaml:"pin"` // negative disables the receiver
	ActiveLow bool   `yaml:"active_low"`
}

type Blink struct {
	Pin        int `yaml:"pin"` // negative disables the LED
	IntervalMs int `yaml:"interval_ms"`
}

type Config struct {
	Matrix      Matrix `yaml:"matrix"`
	Driver      string `yaml:"driver"` // "spi" | "console" | "none"
	SPI         SPI    `yaml:"spi"`
	Brightness  uint8  `yaml:"brightness"`
	WordColor   string `yaml:"word_color"` // "#rrggbb"
	SecondsMode string `yaml:"seconds_mode"`
	Splash      int    `yaml:"splash"`
	SnakeRings  int    `yaml:"snake_rings"`

	DCF77 DCF77 `yaml:"dcf77"`
	Blink Blink `yaml:"blink"`

	Poll      time.Duration `yaml:"poll"`
	Heartbeat time.Duration `yaml:"heartbeat"`
	Broker    string        `yaml:"broker"`
	HTTPAddr  string        `yaml:"http"`
}

// Default returns the configuration of the 13x11 German clock on a
// Raspberry Pi.
func Default() *Config {
	return &Config{
		Matrix:      Matrix{Width: 13, Height: 11},
		Driver:      DriverSPI,
		SPI:         SPI{Dev: "/dev/spidev0.0", SpeedHz: 2500000},
		Brightness:  100,
		WordColor:   "#ffffff",
		SecondsMode: display.SecondsHidden.String(),
		DCF77:       DCF77{Chip: gpio.DefaultChip, Pin: gpio.PinDCF77, ActiveLow: true},
		Blink:       Blink{Pin: gpio.PinBlink, IntervalMs: 500},
		Poll:        5 * time.Millisecond,
		Heartbeat:   15 * time.Minute,
		Broker:      "tcp://localhost:1883",
		HTTPAddr:    ":80",
	}
}

// Load reads path over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Matrix.Width <= 0 || c.Matrix.Width >= 16 || c.Matrix.Height <= 0 {
		errs = append(errs, fmt.Errorf("matrix %dx%d: width must be 1..15", c.Matrix.Width, c.Matrix.Height))
	}
	switch c.Driver {
	case DriverSPI, DriverConsole, DriverNone:
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}
	if _, err := c.Color(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Seconds(); err != nil {
		errs = append(errs, err)
	}
	if c.SnakeRings < 0 {
		errs = append(errs, fmt.Errorf("snake_rings must not be negative"))
	}
	if c.Poll <= 0 {
		errs = append(errs, fmt.Errorf("poll must be positive"))
	}
	return errors.Join(errs...)
}

// Color parses WordColor.
func (c *Config) Color() (pixel.Color, error) {
	return ParseColor(c.WordColor)
}

// Seconds parses SecondsMode.
func (c *Config) Seconds() (display.SecondsMode, error) {
	return display.ParseSecondsMode(c.SecondsMode)
}

// ParseColor parses "#rrggbb" (the leading '#' is optional).
func ParseColor(s string) (pixel.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return pixel.Black, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return pixel.Black, fmt.Errorf("invalid color %q", s)
	}
	return pixel.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
