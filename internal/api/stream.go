package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-derby/internal/arena"
)

// Websocket stream timing.
const (
	streamBuffer  = 8
	streamEvery   = 3 // 20 frames per second at the default tick rate
	maxEvery      = 60
	pongWait      = 60 * time.Second
	pingPeriod    = 25 * time.Second
	writeWait     = 10 * time.Second
	maxClientRead = 512
)

// handleLiveStream upgrades to a websocket and pushes arena frames as JSON
// until either side goes away. ?every=N sends one frame in N; the
// announcements of skipped frames ride along with the next one sent.
func (s *Server) handleLiveStream(w http.ResponseWriter, r *http.Request) {
	if s.live == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no live arena")
		return
	}
	every, err := parseEvery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id := arena.SpectatorID("ws-" + uuid.NewString()[:8])
	sp := s.live.Subscribe(id, streamBuffer)
	defer s.live.Unsubscribe(id)
	s.logger.Info("Stream opened", "spectator", id, "remote", r.RemoteAddr)

	conn.SetReadLimit(maxClientRead)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Client messages are ignored; reading only notices the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	var pending []string
	n := 0
	for {
		select {
		case u := <-sp.Updates():
			pending = append(pending, u.Messages...)
			// The primed frame goes out immediately.
			if n%every != 0 {
				n++
				continue
			}
			n++
			u.Messages = pending
			pending = nil
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(u); err != nil {
				s.logger.Debug("Stream write failed", "spectator", id, "error", err)
				return
			}

		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sp.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "arena stopped"),
				time.Now().Add(writeWait))
			return

		case <-gone:
			s.logger.Info("Stream closed", "spectator", id)
			return
		}
	}
}

func parseEvery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("every")
	if raw == "" {
		return streamEvery, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("every must be a positive integer")
	}
	return min(n, maxEvery), nil
}
