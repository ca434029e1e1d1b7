// Package status provides a thread-safe status tracker for the word clock
// daemon. It is written by the main loop and read by HTTP handlers and
// MQTT heartbeats.
package status

import (
	"sync"
	"time"

	"github.com/flobbe/wordclock/internal/dcf77"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Driver      string
	Width       int
	Height      int
}

// Signal is the DCF77 receiver state.
type Signal struct {
	Quality  int
	Synced   bool
	BitIndex int
	LastBit  uint8
	Level    bool
	Counts   dcf77.Counts
	// LastMarker is the wall time of the last minute marker, zero if none.
	LastMarker time.Time
}

// Display is the rendering state.
type Display struct {
	State       string
	SecondsMode string
	Hour        int
	Minute      int
	Second      int
	Words       []string
	Brightness  uint8
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Signal        Signal
	Display       Display
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// UpdateSignal replaces the receiver state.
func (t *Tracker) UpdateSignal(s Signal) {
	t.mu.Lock()
	t.snap.Signal = s
	t.mu.Unlock()
}

// UpdateDisplay replaces the rendering state. Words is copied.
func (t *Tracker) UpdateDisplay(d Display) {
	d.Words = append([]string(nil), d.Words...)
	t.mu.Lock()
	t.snap.Display = d
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Display.Words = append([]string(nil), t.snap.Display.Words...)
	if t.snap.Network != nil {
		n := *t.snap.Network
		s.Network = &n
	}
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
