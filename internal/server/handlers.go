package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"skyrelay/internal/analytics"
	"skyrelay/internal/broadcast"
	"skyrelay/internal/db"
	"skyrelay/internal/leaderboard"
	"skyrelay/internal/metrics"
	"skyrelay/internal/rooms"
	"skyrelay/internal/wshub"
)

const (
	defaultBoardSize = 10
	maxBoardSize     = 100
	feedBuffer       = 32
	feedKeepAlive    = 25 * time.Second
)

type Server struct {
	Hub     *wshub.Hub
	Feed    *broadcast.Broadcaster
	Metrics *metrics.Metrics
	DB      *db.DB             // nil if no database configured
	Board   *leaderboard.Board // nil if no redis configured
	Logger  *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Warn("writing response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "db_error",
				"error":  err.Error(),
			})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	list, err := s.Hub.Rooms(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "relay unavailable")
		return
	}
	if list == nil {
		list = []rooms.Summary{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

// handleFeed streams lifecycle events as Server-Sent Events until the client
// goes away or the relay shuts down.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := s.Feed.Subscribe(feedBuffer)
	defer s.Feed.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(feedKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger().Warn("encoding feed event", "kind", ev.Kind, "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\n", ev.Kind)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultBoardSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxBoardSize)
	}

	if q.Get("source") == "live" {
		if s.Board == nil {
			s.writeError(w, http.StatusServiceUnavailable, "live leaderboard requires redis")
			return
		}
		entries, err := s.Board.Top(r.Context(), limit)
		if err != nil {
			s.logger().Error("live leaderboard", "err", err)
			s.writeError(w, http.StatusInternalServerError, "Error loading leaderboard")
			return
		}
		s.writeJSON(w, http.StatusOK, nonNil(entries))
		return
	}

	if s.DB == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Analytics requires a database connection")
		return
	}
	category := q.Get("cat")
	if category == "" {
		category = analytics.CategoryScore
	}
	entries, err := analytics.NewQueries(s.DB).GetLeaderboard(category, limit)
	switch {
	case errors.Is(err, analytics.ErrUnknownCategory):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger().Error("leaderboard", "category", category, "err", err)
		s.writeError(w, http.StatusInternalServerError, "Error loading leaderboard")
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Analytics requires a database connection")
		return
	}
	stats, err := analytics.NewQueries(s.DB).GetPlayerLifetimeStats(r.PathValue("id"))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.writeError(w, http.StatusNotFound, "Player not found")
		return
	case err != nil:
		s.logger().Error("player stats", "player", r.PathValue("id"), "err", err)
		s.writeError(w, http.StatusInternalServerError, "Error loading player")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Analytics requires a database connection")
		return
	}
	if _, err := uuid.Parse(r.PathValue("id")); err != nil {
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	recap, err := analytics.NewQueries(s.DB).GetGameRecap(r.PathValue("id"))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.writeError(w, http.StatusNotFound, "Game not found")
		return
	case err != nil:
		s.logger().Error("game recap", "game", r.PathValue("id"), "err", err)
		s.writeError(w, http.StatusInternalServerError, "Error loading game")
		return
	}
	s.writeJSON(w, http.StatusOK, recap)
}

func nonNil(entries []analytics.LeaderboardEntry) []analytics.LeaderboardEntry {
	if entries == nil {
		return []analytics.LeaderboardEntry{}
	}
	return entries
}
