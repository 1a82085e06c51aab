package devtools

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/statekit-go/statekit/pkg/statekit"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetricsHandler overrides the /metrics handler.
// Default: promhttp.Handler() (the default Prometheus registry).
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// Server exposes a registry's committed state over HTTP.
type Server struct {
	reg     *statekit.Registry
	logger  *slog.Logger
	metrics http.Handler

	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]*sync.Mutex
	unsubs []func()
}

// ChangeMessage is one websocket frame: a committed change notification.
type ChangeMessage struct {
	Model    string    `json:"model"`
	Current  any       `json:"current"`
	Previous any       `json:"previous"`
	Time     time.Time `json:"time"`
}

// NewServer creates a devtools server over reg. It subscribes to change
// notifications for every model registered at construction time; models
// created afterwards appear in snapshots but not in the live feed.
func NewServer(reg *statekit.Registry, opts ...Option) *Server {
	s := &Server{
		reg:     reg,
		logger:  slog.Default(),
		metrics: promhttp.Handler(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Debug tooling; same-origin enforcement is the embedder's call.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, id := range reg.ModelIDs() {
		id := id
		unsub, err := reg.OnChange(id, func(cur, prev any) {
			s.broadcast(ChangeMessage{
				Model:    id,
				Current:  cur,
				Previous: prev,
				Time:     time.Now(),
			})
		})
		if err == nil {
			s.unsubs = append(s.unsubs, unsub)
		}
	}

	return s
}

// Handler returns the HTTP handler for the devtools endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/models", s.handleModels)
	r.Get("/api/models/{id}", s.handleModel)
	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/ws", s.handleWS)
	r.Handle("/metrics", s.metrics)

	return r
}

// Close detaches the server from the registry and drops all websocket
// connections.
func (s *Server) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	conns := s.conns
	s.conns = make(map[*websocket.Conn]*sync.Mutex)
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	for conn := range conns {
		conn.Close()
	}
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.reg.ModelIDs())
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.reg.Read(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"id": id, "state": state})
}

// handleSnapshot serializes Read for every model id. This output is the
// whole persisted-state contract: restoring is re-registering each model
// with its snapshotted value.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := make(map[string]any)
	for _, id := range s.reg.ModelIDs() {
		state, err := s.reg.Read(id)
		if err != nil {
			continue // destroyed between ModelIDs and Read
		}
		snapshot[id] = state
	}
	writeJSON(w, snapshot)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("devtools: websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = &sync.Mutex{}
	s.mu.Unlock()

	s.logger.Debug("devtools: websocket client connected", "remote", conn.RemoteAddr())

	// Reader loop only to detect close; the feed is one-directional.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast sends a change message to every connected client. A failed
// write drops that client; the kernel flush is never blocked on a slow
// consumer beyond the write itself.
func (s *Server) broadcast(msg ChangeMessage) {
	s.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(s.conns))
	for c, mu := range s.conns {
		conns[c] = mu
	}
	s.mu.Unlock()

	for conn, mu := range conns {
		mu.Lock()
		err := conn.WriteJSON(msg)
		mu.Unlock()
		if err != nil {
			s.logger.Debug("devtools: dropping websocket client", "error", err)
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
