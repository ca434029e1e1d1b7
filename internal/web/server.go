// Package web provides an HTTP status server for the word clock daemon,
// including a live preview of the LED matrix over a websocket.
package web

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/flobbe/wordclock/internal/pixel"
	"github.com/flobbe/wordclock/internal/status"
)

// FrameSource exposes the last frame shown on the strip, in strip order,
// with a counter that changes whenever a new frame is shown.
// *pixel.Strip implements it.
type FrameSource interface {
	Frame() ([]pixel.Color, uint64)
}

// Matrix describes how strip pixels map onto the preview grid.
type Matrix struct {
	Width  int
	Height int
	// Index maps matrix coordinates to a strip index.
	Index func(width, x, y int) int
}

const defaultFramePoll = 50 * time.Millisecond

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	frames     FrameSource
	matrix     Matrix
	framePoll  time.Duration
	upgrader   websocket.Upgrader

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a Server that reads state from the given tracker. frames may
// be nil, in which case /frames is not served.
func New(addr string, tracker *status.Tracker, frames FrameSource, matrix Matrix) *Server {
	if matrix.Index == nil {
		matrix.Index = func(width, x, y int) int { return y*width + x }
	}
	s := &Server{
		tracker:   tracker,
		frames:    frames,
		matrix:    matrix,
		framePoll: defaultFramePoll,
		upgrader:  websocket.Upgrader{},
		quit:      make(chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/index.html", s.handleIndex).Methods("GET")
	router.HandleFunc("/index.json", s.handleJSON).Methods("GET")
	if frames != nil {
		router.HandleFunc("/frames", s.handleFrames).Methods("GET")
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return s
}

// Handler returns the HTTP handler. Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and ends open frame streams.
func (s *Server) Shutdown(ctx context.Context) error {
	s.quitOnce.Do(func() { close(s.quit) })
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.frames != nil)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
