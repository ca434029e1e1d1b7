package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flobbe/wordclock/internal/display"
	"github.com/flobbe/wordclock/internal/pixel"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
driver: console
brightness: 40
word_color: "#ff8000"
seconds_mode: countdown
poll: 2ms
dcf77:
  pin: 4
blink:
  pin: -1
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverConsole, c.Driver)
	assert.Equal(t, uint8(40), c.Brightness)
	assert.Equal(t, 2*time.Millisecond, c.Poll)
	assert.Equal(t, 4, c.DCF77.Pin)
	assert.True(t, c.DCF77.ActiveLow, "unset keys keep defaults")
	assert.Equal(t, -1, c.Blink.Pin)
	assert.Equal(t, 13, c.Matrix.Width)

	col, err := c.Color()
	require.NoError(t, err)
	assert.Equal(t, pixel.RGB(255, 128, 0), col)

	m, err := c.Seconds()
	require.NoError(t, err)
	assert.Equal(t, display.SecondsCountdown, m)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"wide matrix":  "matrix: {width: 16, height: 11}",
		"driver":       "driver: pwm",
		"color":        `word_color: "blue"`,
		"seconds mode": "seconds_mode: sundial",
		"poll":         "poll: 0s",
		"snake rings":  "snake_rings: -2",
		"yaml":         "driver: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Splash = 2
	c.Heartbeat = time.Minute
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, pixel.RGB(10, 11, 12), c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#gggggg")
	assert.Error(t, err)
}
