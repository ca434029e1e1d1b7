// Package mqtt publishes DCF77 and lifecycle events to MQTT and receives
// remote display commands, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/flobbe/wordclock/internal/dcf77"
)

// Topic is the MQTT topic for DCF77 signal events.
const Topic = "wordclock/dcf77/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "wordclock/system"

// TopicCommand is subscribed to for remote display commands.
const TopicCommand = "wordclock/command"

// Signal event types.
const (
	EventMinuteMarker = "MINUTE_MARKER"
	EventSyncLost     = "SYNC_LOST"
)

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a DCF77 signal event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event SignalEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SignalEvent describes a notable DCF77 receiver event.
type SignalEvent struct {
	Timestamp time.Time
	Event     string // EventMinuteMarker or EventSyncLost
	Quality   int
	Counts    dcf77.Counts
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	DCF77 SignalPayload `json:"dcf77"`
}

// SignalPayload contains the signal event details.
type SignalPayload struct {
	Timestamp string        `json:"timestamp"`
	Event     string        `json:"event"`
	Quality   int           `json:"quality"`
	Counts    CountsPayload `json:"counts"`
}

// CountsPayload mirrors dcf77.Counts.
type CountsPayload struct {
	Edges         int `json:"edges"`
	Noise         int `json:"noise"`
	Zeros         int `json:"zeros"`
	Ones          int `json:"ones"`
	MinuteMarkers int `json:"minute_markers"`
}

// NewCountsPayload converts tracker counters to their wire form.
func NewCountsPayload(c dcf77.Counts) CountsPayload {
	return CountsPayload{
		Edges:         c.Edges,
		Noise:         c.Noise,
		Zeros:         c.Zeros,
		Ones:          c.Ones,
		MinuteMarkers: c.MinuteMarkers,
	}
}

// FormatPayload creates the JSON payload for a signal event.
func FormatPayload(event SignalEvent) ([]byte, error) {
	payload := Payload{
		DCF77: SignalPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Quality:   event.Quality,
			Counts:    NewCountsPayload(event.Counts),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
