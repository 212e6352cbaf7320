package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tui-derby/internal/config"
	"github.com/vovakirdan/tui-derby/internal/race"
)

// Limits for list endpoints and simulations.
const (
	defaultLimit    = 20
	maxLimit        = 200
	maxSimSeconds   = 600
	maxRequestBytes = 1 << 16
)

// StatusResponse describes the running server.
type StatusResponse struct {
	Uptime     string `json:"uptime"`
	History    bool   `json:"history"`
	Live       bool   `json:"live"`
	Spectators int    `json:"spectators"`
}

// SimulateRequest asks for a headless race.
type SimulateRequest struct {
	Names   []string `json:"names"`
	Seed    int64    `json:"seed"`
	Profile string   `json:"profile"`
}

// SimulateResponse is the outcome of a headless race.
type SimulateResponse struct {
	Profile  string      `json:"profile"`
	Finished bool        `json:"finished"` // false when the race hit the time cap
	Result   race.Result `json:"result"`
	Messages []string    `json:"messages"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		History: s.history != nil,
		Live:    s.live != nil,
	}
	if s.live != nil {
		resp.Spectators = s.live.Spectators()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRaces(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "race history is disabled")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	races, err := s.history.RecentRaces(limit)
	if err != nil {
		s.logger.Error("Cannot list races", "error", err)
		s.writeError(w, http.StatusInternalServerError, "cannot list races")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"races": races, "count": len(races)})
}

func (s *Server) handleGetRace(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "race history is disabled")
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := s.history.RaceByID(id)
	if err != nil {
		s.logger.Error("Cannot load race", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "cannot load race")
		return
	}
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "race not found")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "race history is disabled")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := s.history.Leaderboard(limit)
	if err != nil {
		s.logger.Error("Cannot build leaderboard", "error", err)
		s.writeError(w, http.StatusInternalServerError, "cannot build leaderboard")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runners": stats})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "race history is disabled")
		return
	}
	counts, err := s.history.EventCounts()
	if err != nil {
		s.logger.Error("Cannot count events", "error", err)
		s.writeError(w, http.StatusInternalServerError, "cannot count events")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"events": counts})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if s.live == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no live arena")
		return
	}
	u, ok := s.live.Latest()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "arena has not started")
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

// handleSimulate runs a race to completion without a clock and returns
// its result. Nothing is stored.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile := config.ProfileStandard
	if req.Profile != "" {
		p, err := config.ParseProfile(req.Profile)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		profile = p
	}

	rt := s.runtime
	rt.Seed = req.Seed
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	cfg := s.race
	config.ApplyProfile(&cfg, profile)

	var messages []string
	rc, err := race.New(race.Options{
		Config:  cfg,
		Runtime: rt,
		Announcer: race.AnnouncerFunc(func(msg string) {
			messages = append(messages, msg)
		}),
		Logger: s.logger,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := rc.Setup(req.Names); err != nil {
		if errors.Is(err, race.ErrTooFewActors) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "cannot set up race")
		return
	}
	rc.Start()
	finished := rc.Run(maxSimSeconds * rt.TickRate)

	s.writeJSON(w, http.StatusOK, SimulateResponse{
		Profile:  profile.String(),
		Finished: finished,
		Result:   rc.Result(),
		Messages: messages,
	})
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxLimit), nil
}
