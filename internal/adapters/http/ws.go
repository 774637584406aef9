package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"genesis/internal/adapters/http/middleware"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin only. The browser sends Origin on ws:// upgrades;
		// requests without one come from non-browser clients we control.
		origin := r.Header.Get("Origin")
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsSendBuffer = 16
)

type wsClient struct {
	username string
	conn     *websocket.Conn
	send     chan any
}

// Hub tracks live websocket connections keyed by username so that
// new messages can be pushed to recipients as they arrive.
// INVARIANT: A username may hold multiple connections (several tabs)
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*wsClient]struct{})}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.username]
	if !ok {
		conns = make(map[*wsClient]struct{})
		h.clients[c.username] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.username]
	if !ok {
		return
	}
	if _, present := conns[c]; !present {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.username)
	}
}

// Push delivers a payload to every open connection for username.
// Slow consumers are dropped rather than blocking the sender.
func (h *Hub) Push(username string, payload any) {
	h.mu.RLock()
	var stale []*wsClient
	for c := range h.clients[username] {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range stale {
		h.unregister(c)
	}
}

// ConnectionCount reports the number of open connections for username.
func (h *Hub) ConnectionCount(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[username])
}

// handleMessagesWS upgrades the request and streams new messages to the
// session's user until the connection closes (GET /ws/messages).
func handleMessagesWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws_event", "event", "upgrade_failed", "error", err)
		return
	}

	client := &wsClient{
		username: sess.Username,
		conn:     conn,
		send:     make(chan any, wsSendBuffer),
	}
	messageHub.register(client)
	slog.Info("ws_event", "event", "connected", "username", sess.Username)

	go client.writePump()
	client.readPump()
}

// readPump drains inbound frames so close and pong handling work.
// Clients never send application data over this socket.
func (c *wsClient) readPump() {
	defer func() {
		messageHub.unregister(c)
		c.conn.Close()
		slog.Info("ws_event", "event", "disconnected", "username", c.username)
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(timeNow().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(timeNow().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(timeNow().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(timeNow().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
