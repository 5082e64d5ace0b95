// SPDX-License-Identifier: EPL-2.0

// Package remote serves playback status and transport control over HTTP.
//
// The server pushes a JSON status frame to every WebSocket client on a
// fixed interval and after each command, and accepts transport commands
// (play, pause, stop, seek, volume, mute, unmute) on the same
// connection. GET /status returns the most recent frame for clients
// that only poll.
//
// One goroutine per connection writes to the socket; commands are read
// and applied on the connection's handler goroutine. Slow clients drop
// frames instead of blocking the engine.
package remote

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auricle-audio/auricle/engine"
)

const (
	// DefaultListen is the address served when Config.Listen is empty.
	DefaultListen = ":8090"
	// DefaultStatusInterval is the status push period when
	// Config.StatusInterval is zero.
	DefaultStatusInterval = 500 * time.Millisecond

	// sendBuffer is the per-session outbound queue, in messages.
	sendBuffer = 16
)

// Config holds the server settings.
type Config struct {
	// Listen is the host:port address to bind. Empty selects
	// DefaultListen.
	Listen string
	// StatusInterval is the period between pushed status frames. Zero
	// selects DefaultStatusInterval.
	StatusInterval time.Duration
	// Logger receives server logs. Nil selects slog.Default.
	Logger *slog.Logger
}

// Server exposes an Engine over WebSocket and HTTP. Create one with
// NewServer and release it with Stop.
type Server struct {
	eng      *engine.Engine
	listen   string
	interval time.Duration
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
	latest   Status
	stopped  bool

	poke chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewServer creates a server for the given engine and starts its status
// loop. The engine must outlive the server.
func NewServer(eng *engine.Engine, cfg Config) *Server {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = DefaultStatusInterval
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		eng:      eng,
		listen:   cfg.Listen,
		interval: cfg.StatusInterval,
		log:      log.With("component", "remote"),
		sessions: make(map[*session]struct{}),
		poke:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.latest = s.buildStatus()

	go s.run()
	return s
}

// Routes returns the HTTP handler serving /ws and /status.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

// Start begins serving on the configured address. The returned server
// can be shut down gracefully by the caller.
func (s *Server) Start() *http.Server {
	srv := &http.Server{
		Addr:    s.listen,
		Handler: s.Routes(),
	}

	s.log.Info("starting remote server", "addr", s.listen)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("remote server error", "error", err)
		}
	}()

	return srv
}

// Stop ends the status loop and closes every client connection. New
// connections are refused afterwards. Stop is idempotent.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	close(s.quit)
	<-s.done
}

// run rebuilds and broadcasts the status frame on the configured
// interval, and immediately when a command pokes it.
func (s *Server) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-s.poke:
		case <-ticker.C:
		}
		s.refresh()
	}
}

// refresh publishes a fresh status frame to the cache and to every
// session.
func (s *Server) refresh() {
	st := s.buildStatus()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = st
	for sess := range s.sessions {
		sess.trySend(st, s.log)
	}
}

// pokeStatus requests an immediate refresh without blocking.
func (s *Server) pokeStatus() {
	select {
	case s.poke <- struct{}{}:
	default:
	}
}

// handleStatus serves the most recent status frame as plain JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	st := s.latest
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.log.Error("failed to encode status", "error", err)
	}
}

// register adds a session and queues the current status frame as its
// first message. It reports false when the server is stopped.
func (s *Server) register(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	s.sessions[sess] = struct{}{}
	sess.send <- s.latest
	return true
}

// unregister removes a session and closes its send queue. Only the
// session's handler goroutine calls this, so the queue is closed
// exactly once.
func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess]; ok {
		delete(s.sessions, sess)
		close(sess.send)
	}
}
