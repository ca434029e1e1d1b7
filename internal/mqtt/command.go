package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flobbe/wordclock/internal/config"
	"github.com/flobbe/wordclock/internal/display"
	"github.com/flobbe/wordclock/internal/pixel"
)

// ErrEmptyCommand is returned for commands that set nothing.
var ErrEmptyCommand = errors.New("command sets no field")

// Command is a remote display change. Nil fields are left untouched.
type Command struct {
	SecondsMode *display.SecondsMode
	Brightness  *uint8
	Splash      *display.Effect
	WordColor   *pixel.Color
}

// CommandSource delivers parsed remote commands.
type CommandSource interface {
	Commands() <-chan Command
}

type commandPayload struct {
	SecondsMode *string `json:"seconds_mode"`
	Brightness  *int    `json:"brightness"`
	Splash      *int    `json:"splash"`
	WordColor   *string `json:"word_color"`
}

// ParseCommand decodes a JSON command such as
// {"seconds_mode":"hand","brightness":80}.
func ParseCommand(b []byte) (Command, error) {
	var p commandPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}

	var c Command
	if p.SecondsMode != nil {
		m, err := display.ParseSecondsMode(*p.SecondsMode)
		if err != nil {
			return Command{}, err
		}
		c.SecondsMode = &m
	}
	if p.Brightness != nil {
		if *p.Brightness < 0 || *p.Brightness > 255 {
			return Command{}, fmt.Errorf("brightness %d out of range 0..255", *p.Brightness)
		}
		v := uint8(*p.Brightness)
		c.Brightness = &v
	}
	if p.Splash != nil {
		e := display.Effect(*p.Splash)
		c.Splash = &e
	}
	if p.WordColor != nil {
		col, err := config.ParseColor(*p.WordColor)
		if err != nil {
			return Command{}, err
		}
		c.WordColor = &col
	}

	if c.SecondsMode == nil && c.Brightness == nil && c.Splash == nil && c.WordColor == nil {
		return Command{}, ErrEmptyCommand
	}
	return c, nil
}
