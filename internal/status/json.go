package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Synced        bool         `json:"synced"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Signal        SignalJSON   `json:"signal"`
	Display       DisplayJSON  `json:"display"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// SignalJSON is the JSON representation of the receiver state.
type SignalJSON struct {
	Quality    int        `json:"quality"`
	BitIndex   int        `json:"bit_index"`
	LastBit    uint8      `json:"last_bit"`
	Level      bool       `json:"level"`
	LastMarker string     `json:"last_marker,omitempty"`
	Counts     CountsJSON `json:"counts"`
}

// CountsJSON is the JSON representation of pulse counts.
type CountsJSON struct {
	Edges         int `json:"edges"`
	Noise         int `json:"noise"`
	Zeros         int `json:"zeros"`
	Ones          int `json:"ones"`
	MinuteMarkers int `json:"minute_markers"`
}

// DisplayJSON is the JSON representation of the rendering state.
type DisplayJSON struct {
	State       string   `json:"state"`
	SecondsMode string   `json:"seconds_mode"`
	Time        string   `json:"time"`
	Words       []string `json:"words"`
	Brightness  uint8    `json:"brightness"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Driver      string `json:"driver"`
	Matrix      string `json:"matrix"`
}

func buildInner(snap Snapshot) StatusInner {
	state := snap.Display.State
	if state == "" {
		state = "UNKNOWN"
	}
	words := snap.Display.Words
	if words == nil {
		words = []string{}
	}
	var lastMarker string
	if !snap.Signal.LastMarker.IsZero() {
		lastMarker = snap.Signal.LastMarker.UTC().Format(time.RFC3339)
	}

	return StatusInner{
		Synced:        snap.Signal.Synced,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Signal: SignalJSON{
			Quality:    snap.Signal.Quality,
			BitIndex:   snap.Signal.BitIndex,
			LastBit:    snap.Signal.LastBit,
			Level:      snap.Signal.Level,
			LastMarker: lastMarker,
			Counts: CountsJSON{
				Edges:         snap.Signal.Counts.Edges,
				Noise:         snap.Signal.Counts.Noise,
				Zeros:         snap.Signal.Counts.Zeros,
				Ones:          snap.Signal.Counts.Ones,
				MinuteMarkers: snap.Signal.Counts.MinuteMarkers,
			},
		},
		Display: DisplayJSON{
			State:       state,
			SecondsMode: snap.Display.SecondsMode,
			Time:        fmt.Sprintf("%02d:%02d:%02d", snap.Display.Hour, snap.Display.Minute, snap.Display.Second),
			Words:       words,
			Brightness:  snap.Display.Brightness,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Driver:      snap.Config.Driver,
			Matrix:      fmt.Sprintf("%dx%d", snap.Config.Width, snap.Config.Height),
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
