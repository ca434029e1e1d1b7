package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/flobbe/wordclock/internal/dcf77"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 5, Broker: "tcp://localhost:1883", HTTPPort: ":80", Width: 13, Height: 11}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 5 {
		t.Errorf("Config.PollMs: got %d, want 5", snap.Config.PollMs)
	}
	if snap.Signal.Synced {
		t.Error("expected Synced=false initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateSignalAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.UpdateSignal(Signal{Quality: 80, Synced: true, BitIndex: 12, LastBit: 1, Counts: dcf77.Counts{Ones: 3}})

	snap := tr.Snapshot()
	if snap.Signal.Quality != 80 {
		t.Errorf("Quality: got %d, want 80", snap.Signal.Quality)
	}
	if !snap.Signal.Synced || snap.Signal.BitIndex != 12 || snap.Signal.LastBit != 1 {
		t.Errorf("unexpected signal: %+v", snap.Signal)
	}
	if snap.Signal.Counts.Ones != 3 {
		t.Errorf("Counts.Ones: got %d, want 3", snap.Signal.Counts.Ones)
	}
}

func TestUpdateDisplayCopiesWords(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	words := []string{"ES", "IST", "DREI"}

	tr.UpdateDisplay(Display{State: "TIME", Hour: 3, Words: words})
	words[2] = "VIER"

	snap := tr.Snapshot()
	if snap.Display.Words[2] != "DREI" {
		t.Errorf("tracker should copy words, got %v", snap.Display.Words)
	}

	snap.Display.Words[0] = "XX"
	if tr.Snapshot().Display.Words[0] != "ES" {
		t.Error("snapshot should not share words with the tracker")
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	if tr.Snapshot().Network != nil {
		t.Error("expected nil network initially")
	}

	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.10", Status: "connected"})
	snap := tr.Snapshot()
	if snap.Network == nil {
		t.Fatal("expected network to be set")
	}
	if snap.Network.IP != "192.168.1.10" {
		t.Errorf("Network.IP: got %q", snap.Network.IP)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{})
	tr.now = func() time.Time { return start.Add(90 * time.Second) }

	if got := tr.Snapshot().Uptime(); got != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", got)
	}
}

func fixedSnapshot() Snapshot {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return Snapshot{
		Signal: Signal{
			Quality:    75,
			Synced:     true,
			BitIndex:   -1,
			LastMarker: start.Add(time.Minute),
			Counts:     dcf77.Counts{Edges: 118, Zeros: 30, Ones: 28, MinuteMarkers: 1},
		},
		Display: Display{
			State:       "TIME",
			SecondsMode: "hand",
			Hour:        3,
			Minute:      15,
			Second:      7,
			Words:       []string{"ES", "IST", "VIERTEL", "NACH", "DREI"},
			Brightness:  100,
		},
		StartTime:     start,
		Now:           start.Add(2 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 5, HeartbeatMs: 900000, Broker: "tcp://b:1883", HTTPPort: ":80", Driver: "spi", Width: 13, Height: 11},
	}
}

func TestFormatJSON(t *testing.T) {
	data := FormatJSON(fixedSnapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status
	if s.Event != "" || s.Reason != "" {
		t.Error("web JSON should not carry event/reason")
	}
	if !s.Synced {
		t.Error("expected synced")
	}
	if s.UptimeSeconds != 120 {
		t.Errorf("UptimeSeconds: got %d, want 120", s.UptimeSeconds)
	}
	if s.Signal.Quality != 75 || s.Signal.BitIndex != -1 {
		t.Errorf("unexpected signal: %+v", s.Signal)
	}
	if s.Signal.LastMarker != "2026-01-01T12:01:00Z" {
		t.Errorf("LastMarker: got %q", s.Signal.LastMarker)
	}
	if s.Signal.Counts.Edges != 118 {
		t.Errorf("Counts.Edges: got %d", s.Signal.Counts.Edges)
	}
	if s.Display.Time != "03:15:07" {
		t.Errorf("Display.Time: got %q", s.Display.Time)
	}
	if len(s.Display.Words) != 5 || s.Display.Words[2] != "VIERTEL" {
		t.Errorf("Display.Words: got %v", s.Display.Words)
	}
	if s.Config.Matrix != "13x11" {
		t.Errorf("Config.Matrix: got %q", s.Config.Matrix)
	}
	if s.Network != nil {
		t.Error("network should be omitted when nil")
	}
}

func TestFormatJSONDefaults(t *testing.T) {
	data := FormatJSON(Snapshot{})

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	display := parsed["status"]["display"].(map[string]interface{})
	if display["state"] != "UNKNOWN" {
		t.Errorf("expected UNKNOWN state, got %v", display["state"])
	}
	if words, ok := display["words"].([]interface{}); !ok || len(words) != 0 {
		t.Errorf("expected empty words array, got %v", display["words"])
	}
	signal := parsed["status"]["signal"].(map[string]interface{})
	if _, ok := signal["last_marker"]; ok {
		t.Error("last_marker should be omitted before the first marker")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	data := FormatStatusEvent(fixedSnapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	data := FormatStatusEvent(fixedSnapshot(), "HEARTBEAT", "")

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := parsed["status"]["reason"]; ok {
		t.Error("reason should be omitted")
	}
	if parsed["status"]["event"] != "HEARTBEAT" {
		t.Errorf("event: got %v", parsed["status"]["event"])
	}
}

func TestFormatJSONWithNetwork(t *testing.T) {
	snap := fixedSnapshot()
	snap.Network = &NetworkInfo{Type: "wifi", IP: "10.0.0.5", Status: "connected", SSID: "MyNet"}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Network == nil {
		t.Fatal("expected network")
	}
	if parsed.Status.Network.SSID != "MyNet" {
		t.Errorf("Network.SSID: got %q, want MyNet", parsed.Status.Network.SSID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.UpdateSignal(Signal{Quality: i % 101})
			tr.UpdateDisplay(Display{State: "TIME", Words: []string{"ES", "IST"}})
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
