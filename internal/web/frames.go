package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/flobbe/wordclock/internal/pixel"
)

const frameWriteTimeout = 200 * time.Millisecond

// topologyMessage is sent once when a preview client connects.
type topologyMessage struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// frameMessage carries one frame as row-major RGB triplets.
type frameMessage struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Reads detect client disconnects.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
	if err := conn.WriteJSON(topologyMessage{Width: s.matrix.Width, Height: s.matrix.Height}); err != nil {
		return
	}

	ticker := time.NewTicker(s.framePoll)
	defer ticker.Stop()

	var lastID uint64
	sent := false
	for {
		pixels, id := s.frames.Frame()
		if !sent || id != lastID {
			msg := frameMessage{T: time.Now().UnixNano(), FrameID: id, RGB: s.rowMajorRGB(pixels)}
			conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("write frame")
				return
			}
			lastID, sent = id, true
		}

		select {
		case <-gone:
			return
		case <-s.quit:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
				time.Now().Add(frameWriteTimeout))
			return
		case <-ticker.C:
		}
	}
}

// rowMajorRGB reorders strip pixels into matrix rows.
func (s *Server) rowMajorRGB(pixels []pixel.Color) []byte {
	w, h := s.matrix.Width, s.matrix.Height
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c pixel.Color
			if i := s.matrix.Index(w, x, y); i >= 0 && i < len(pixels) {
				c = pixels[i]
			}
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}
