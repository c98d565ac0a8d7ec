package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/abhisek/circlez/internal/store"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200

	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// DefaultAddr is where `circlez serve` and `run --share` listen.
const DefaultAddr = ":7420"

// Server exposes a hub and the attempt history over HTTP.
//
//	GET /healthz
//	GET /api/attempts?limit=N   newest first
//	GET /ws                     live AttemptEvent stream
type Server struct {
	hub      *Hub
	repo     store.EventRepo
	source   string
	log      *slog.Logger
	upgrader websocket.Upgrader
	started  time.Time
}

// NewServer serves hub and repo. repo may be nil, in which case
// /api/attempts returns an empty list. source labels events read from repo.
func NewServer(hub *Hub, repo store.EventRepo, source string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:    hub,
		repo:   repo,
		source: source,
		log:    logger.With("component", "feed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Watchers are terminals, not browsers; there is no origin to check.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		started: time.Now(),
	}
}

// Routes returns the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/attempts", s.handleRecent)
	r.Get("/ws", s.handleWS)
	return r
}

// Serve answers requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("feed listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown feed: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"source":      s.source,
		"subscribers": s.hub.Len(),
		"uptime":      time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRecentLimit)
	}

	events := []AttemptEvent{}
	if s.repo != nil {
		attempts, err := s.repo.RecentAttempts(r.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			s.log.Error("query recent attempts", "err", err, "request_id", middleware.GetReqID(r.Context()))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load attempts"})
			return
		}
		for _, a := range attempts {
			events = append(events, FromAttempt(a, s.source))
		}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.log.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	sub := s.hub.Subscribe()
	s.log.Info("watcher connected", "remote", r.RemoteAddr)

	go s.readPump(conn, sub)
	s.writePump(conn, sub)
	s.log.Info("watcher disconnected", "remote", r.RemoteAddr, "dropped", sub.Dropped())
}

// readPump discards client messages and unsubscribes once the connection
// goes away, which in turn ends writePump.
func (s *Server) readPump(conn *websocket.Conn, sub *Subscription) {
	defer s.hub.Unsubscribe(sub)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
