package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flobbe/wordclock/internal/dcf77"
	"github.com/flobbe/wordclock/internal/pixel"
	"github.com/flobbe/wordclock/internal/status"
)

type fakeFrames struct {
	mu     sync.Mutex
	pixels []pixel.Color
	id     uint64
}

func (f *fakeFrames) Frame() ([]pixel.Color, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pixel.Color(nil), f.pixels...), f.id
}

func (f *fakeFrames) set(i int, c pixel.Color) {
	f.mu.Lock()
	f.pixels[i] = c
	f.id++
	f.mu.Unlock()
}

// serpentine mirrors the strip wiring of the real matrix.
func serpentine(width, x, y int) int {
	if y%2 == 1 {
		return y*width + width - 1 - x
	}
	return y*width + x
}

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker, *fakeFrames, *Server) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:      5,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPPort:    ":80",
		Driver:      "console",
		Width:       3,
		Height:      2,
	}
	tr := status.NewTracker(start, cfg)
	frames := &fakeFrames{pixels: make([]pixel.Color, 6)}
	srv := New(":0", tr, frames, Matrix{Width: 3, Height: 2, Index: serpentine})
	srv.framePoll = 5 * time.Millisecond
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr, frames, srv
}

func getStatus(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr, _, _ := newTestServer(t)
	tr.UpdateSignal(status.Signal{Quality: 90, Synced: true, BitIndex: 4, Counts: dcf77.Counts{Ones: 5, Zeros: 2}})
	tr.UpdateDisplay(status.Display{State: "TIME", Hour: 3, Minute: 15, Words: []string{"ES", "IST", "VIERTEL", "NACH", "DREI"}})
	tr.SetMQTTConnected(true)

	sj := getStatus(t, ts.URL)

	if !sj.Status.Synced {
		t.Error("expected Synced=true")
	}
	if sj.Status.Signal.Quality != 90 {
		t.Errorf("Signal.Quality: got %d, want 90", sj.Status.Signal.Quality)
	}
	if sj.Status.Signal.Counts.Ones != 5 {
		t.Errorf("Counts.Ones: got %d, want 5", sj.Status.Signal.Counts.Ones)
	}
	if sj.Status.Display.State != "TIME" {
		t.Errorf("Display.State: got %q, want TIME", sj.Status.Display.State)
	}
	if sj.Status.Display.Time != "03:15:00" {
		t.Errorf("Display.Time: got %q", sj.Status.Display.Time)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Config.Matrix != "3x2" {
		t.Errorf("Config.Matrix: got %q", sj.Status.Config.Matrix)
	}
}

func TestJSONUnknownStateBeforeUpdate(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	sj := getStatus(t, ts.URL)
	if sj.Status.Display.State != "UNKNOWN" {
		t.Errorf("Display.State: got %q, want UNKNOWN", sj.Status.Display.State)
	}
	if sj.Status.Synced {
		t.Error("expected Synced=false initially")
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, tr, _, _ := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})

	sj := getStatus(t, ts.URL)
	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, tr, _, _ := newTestServer(t)
	tr.UpdateDisplay(status.Display{State: "TIME", Words: []string{"ES", "IST", "FÜNF", "UHR"}})
	tr.UpdateSignal(status.Signal{Quality: 35})

	for _, path := range []string{"/", "/index.html"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != 200 {
			t.Errorf("%s status: got %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s Content-Type: got %q, want text/html", path, ct)
		}
		if !strings.Contains(string(body), "ES IST FÜNF UHR") {
			t.Errorf("%s: phrase missing from page", path)
		}
		if !strings.Contains(string(body), `class="poor"`) {
			t.Errorf("%s: expected poor quality class", path)
		}
		if !strings.Contains(string(body), `id="matrix"`) {
			t.Errorf("%s: expected matrix preview", path)
		}
	}
}

func TestHTMLWithoutPreview(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	srv := New(":0", tr, nil, Matrix{Width: 3, Height: 2})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(body), `id="matrix"`) {
		t.Error("preview should be hidden without a frame source")
	}

	resp, err = http.Get(ts.URL + "/frames")
	if err != nil {
		t.Fatalf("GET /frames: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("/frames without source: got %d, want 404", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/index.json", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr, _, _ := newTestServer(t)

	if getStatus(t, ts.URL).Status.Synced {
		t.Error("expected Synced=false initially")
	}

	tr.UpdateSignal(status.Signal{Synced: true})
	tr.SetMQTTConnected(true)

	sj := getStatus(t, ts.URL)
	if !sj.Status.Synced {
		t.Error("expected Synced=true after update")
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}

func dialFrames(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/frames"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestFramesRejectsForeignOrigin(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/frames"

	hdr := http.Header{"Origin": {"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake to fail for a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}

	hdr = http.Header{"Origin": {ts.URL}}
	conn, _, err = websocket.DefaultDialer.Dial(url, hdr)
	if err != nil {
		t.Fatalf("same origin dial: %v", err)
	}
	conn.Close()
}

func TestFramesStream(t *testing.T) {
	ts, _, frames, _ := newTestServer(t)
	// strip index 3 is the right end of the second row
	frames.set(3, pixel.RGB(1, 2, 3))

	conn := dialFrames(t, ts)

	var top topologyMessage
	if err := conn.ReadJSON(&top); err != nil {
		t.Fatalf("read topology: %v", err)
	}
	if top.Width != 3 || top.Height != 2 {
		t.Errorf("topology: got %+v", top)
	}

	var msg frameMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.FrameID != 1 {
		t.Errorf("FrameID: got %d, want 1", msg.FrameID)
	}
	if len(msg.RGB) != 18 {
		t.Fatalf("RGB length: got %d, want 18", len(msg.RGB))
	}
	// row-major cell (2,1) is byte offset (1*3+2)*3
	if got := msg.RGB[15:18]; got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("cell (2,1): got %v", got)
	}

	frames.set(0, pixel.White)
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read second frame: %v", err)
	}
	if msg.FrameID != 2 {
		t.Errorf("FrameID: got %d, want 2", msg.FrameID)
	}
	if msg.RGB[0] != 255 {
		t.Errorf("cell (0,0): got %d, want 255", msg.RGB[0])
	}
}

func TestFramesStreamEndsOnShutdown(t *testing.T) {
	ts, _, _, srv := newTestServer(t)
	conn := dialFrames(t, ts)

	var top topologyMessage
	if err := conn.ReadJSON(&top); err != nil {
		t.Fatalf("read topology: %v", err)
	}
	var msg frameMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}

	srv.Shutdown(context.Background())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Errorf("expected going-away close, got %v", err)
			}
			return
		}
	}
}
