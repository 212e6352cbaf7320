package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-derby/internal/arena"
)

func TestLiveStreamPushesFrames(t *testing.T) {
	cfg := arena.DefaultConfig()
	cfg.Runtime.Seed = 5
	a, err := arena.New(cfg, arena.Options{})
	if err != nil {
		t.Fatalf("arena.New() error = %v", err)
	}
	srv := httptest.NewServer(newServer(t, nil, a))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/live/ws?every=1"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Errorf("handshake status = %d", resp.StatusCode)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var u struct {
		RaceID   string `json:"race_id"`
		Number   int    `json:"number"`
		Snapshot struct {
			State  string            `json:"state"`
			Actors []json.RawMessage `json:"actors"`
		} `json:"snapshot"`
	}
	if err := conn.ReadJSON(&u); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if u.RaceID == "" || u.Number != 1 || u.Snapshot.State != "countdown" {
		t.Errorf("first frame = %q #%d %s", u.RaceID, u.Number, u.Snapshot.State)
	}
	if got := len(u.Snapshot.Actors); got != len(arena.DefaultNames()) {
		t.Errorf("actors = %d, want %d", got, len(arena.DefaultNames()))
	}
	if a.Spectators() != 1 {
		t.Errorf("Spectators() = %d while streaming, want 1", a.Spectators())
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for a.Spectators() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream spectator was not removed after the client left")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLiveStreamRejectsBadRequests(t *testing.T) {
	if w := do(t, newServer(t, nil, nil), http.MethodGet, "/api/v1/live/ws", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("no arena: status = %d, want 503", w.Code)
	}

	a, err := arena.New(arena.DefaultConfig(), arena.Options{})
	if err != nil {
		t.Fatalf("arena.New() error = %v", err)
	}
	h := newServer(t, nil, a)
	for _, q := range []string{"?every=0", "?every=x"} {
		if w := do(t, h, http.MethodGet, "/api/v1/live/ws"+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, w.Code)
		}
	}
	// A plain GET is not a websocket handshake.
	if w := do(t, h, http.MethodGet, "/api/v1/live/ws", ""); w.Code != http.StatusBadRequest {
		t.Errorf("plain GET: status = %d, want 400", w.Code)
	}
	if a.Spectators() != 0 {
		t.Errorf("Spectators() = %d after failed upgrades", a.Spectators())
	}
}
