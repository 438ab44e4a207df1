package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsPushInterval = 1 * time.Second
	wsWriteTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.serveSnapshotStream(conn)
}

// serveSnapshotStream pushes the monitor snapshot on an interval until the
// peer goes away.
func (s *Server) serveSnapshotStream(conn *websocket.Conn) {
	defer conn.Close()

	if err := writeSnapshot(conn, s.monitor.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(wsPushInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			if err := writeSnapshot(conn, s.monitor.Snapshot()); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, payload any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(payload)
}
