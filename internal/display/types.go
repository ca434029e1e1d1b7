package display

import (
	"fmt"
	"strings"
)

// State is the screen the engine is showing.
type State int

const (
	StateSplash State = iota
	StateConnecting
	StateConnectedOK
	StateConnectError
	StateTime
	StateFirmwareUpdate
)

var stateNames = [...]string{
	StateSplash:         "SPLASH",
	StateConnecting:     "CONNECTING",
	StateConnectedOK:    "CONNECTED_OK",
	StateConnectError:   "CONNECT_ERROR",
	StateTime:           "TIME",
	StateFirmwareUpdate: "FIRMWARE_UPDATE",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// SecondsMode selects the overlay drawn on top of the phrase.
type SecondsMode int

const (
	SecondsHidden SecondsMode = iota
	SecondsHand
	SecondsDot
	SecondsDigits
	SecondsCountdown
)

var secondsModeNames = [...]string{
	SecondsHidden:    "hidden",
	SecondsHand:      "hand",
	SecondsDot:       "dot",
	SecondsDigits:    "digits",
	SecondsCountdown: "countdown",
}

func (m SecondsMode) String() string {
	if m < 0 || int(m) >= len(secondsModeNames) {
		return fmt.Sprintf("SecondsMode(%d)", int(m))
	}
	return secondsModeNames[m]
}

// ParseSecondsMode parses the names returned by SecondsMode.String.
func ParseSecondsMode(s string) (SecondsMode, error) {
	for i, name := range secondsModeNames {
		if strings.EqualFold(s, name) {
			return SecondsMode(i), nil
		}
	}
	return SecondsHidden, fmt.Errorf("unknown seconds mode %q", s)
}

// Effect identifies an animation routine.
type Effect int

// Splash effects.
const (
	SplashRandom Effect = iota
	SplashSnake
	SplashSnakeFilled
)

// Time transitions.
const (
	TransitionFade Effect = iota
	TransitionSetHard
)

// Rand is the uniform random source used by splash effects.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}
