// Package api serves race history and the live arena over HTTP.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-derby/internal/arena"
	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/core"
	"github.com/vovakirdan/tui-derby/internal/storage"
)

// History is the read side of the race store.
type History interface {
	RaceByID(id string) (*storage.RaceRecord, error)
	RecentRaces(limit int) ([]storage.RaceRecord, error)
	Leaderboard(limit int) ([]storage.RunnerStats, error)
	EventCounts() (map[string]int, error)
}

// Live exposes the arena's current frame and its subscription feed.
type Live interface {
	Latest() (arena.Update, bool)
	Spectators() int
	Subscribe(id arena.SpectatorID, bufferSize int) *arena.ChannelSpectator
	Unsubscribe(id arena.SpectatorID)
}

// Options configures a Server. History and Live may be nil; their routes
// then answer 503.
type Options struct {
	History History
	Live    Live
	Race    config.RaceConfig // Base tuning for /simulate
	Runtime core.RuntimeConfig
	Logger  *log.Logger
}

// Server handles HTTP requests.
type Server struct {
	history   History
	live      Live
	race      config.RaceConfig
	runtime   core.RuntimeConfig
	logger    *log.Logger
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewServer creates a new API server.
func NewServer(opts Options) *Server {
	s := &Server{
		history:   opts.History,
		live:      opts.Live,
		race:      opts.Race,
		runtime:   opts.Runtime.Normalize(),
		logger:    opts.Logger,
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors)

	r.Route("/api/v1", func(r chi.Router) {
		// The stream outlives any request timeout.
		r.Get("/live/ws", s.handleLiveStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Get("/status", s.handleStatus)
			r.Get("/races", s.handleListRaces)
			r.Get("/races/{id}", s.handleGetRace)
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/events", s.handleEvents)
			r.Get("/live", s.handleLive)
			r.Post("/simulate", s.handleSimulate)
		})
	})

	return r
}

// requestLogger logs each request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Cannot encode response", "error", err)
	}
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
