// SPDX-License-Identifier: EPL-2.0

package remote

import (
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// session is one WebSocket client. The writeLoop goroutine is the
// connection's sole writer; everything else goes through the send
// queue.
type session struct {
	conn *websocket.Conn
	send chan any
}

// handleWebSocket upgrades the connection and serves it until the
// client disconnects or the server stops.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		conn: conn,
		send: make(chan any, sendBuffer),
	}
	if !s.register(sess) {
		sess.close()
		return
	}

	s.log.Debug("client connected", "addr", conn.RemoteAddr())
	go sess.writeLoop()
	s.readLoop(sess)
	s.unregister(sess)
	s.log.Debug("client disconnected", "addr", conn.RemoteAddr())
}

// readLoop applies incoming commands until the connection fails.
func (s *Server) readLoop(sess *session) {
	for {
		var cmd Command
		if err := sess.conn.ReadJSON(&cmd); err != nil {
			return
		}
		s.handle(cmd, sess)
	}
}

// writeLoop drains the send queue to the connection and closes it when
// the queue closes or a write fails.
func (sess *session) writeLoop() {
	defer sess.close()
	for msg := range sess.send {
		if err := sess.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// trySend queues a message, dropping it when the client cannot keep up.
func (sess *session) trySend(msg any, log *slog.Logger) {
	select {
	case sess.send <- msg:
	default:
		log.Debug("dropping frame: session queue full")
	}
}

func (sess *session) close() {
	_ = sess.conn.Close()
}

// checkOrigin admits same-origin requests plus local and private-network
// clients. Browsers omit the Origin header on same-origin requests.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		s.log.Warn("rejected websocket origin", "origin", origin, "error", err)
		return false
	}
	host := u.Hostname()

	if host == "localhost" {
		return true
	}

	requestHost := r.Host
	if h, _, err := net.SplitHostPort(requestHost); err == nil {
		requestHost = h
	}
	if host == requestHost {
		return true
	}

	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
		return true
	}

	s.log.Warn("rejected websocket origin", "origin", origin)
	return false
}
