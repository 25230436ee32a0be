package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// client wraps a connection with a write mutex. The websocket package allows
// at most one concurrent writer, and pushes, pings, and the welcome event all
// write from different goroutines.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) writeJSON(event interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(event)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub keeps one live connection per user and pushes JSON events to it.
// Pushes are best effort: a failed write evicts the connection and is logged,
// never returned to the caller.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint64]*client
	upgrader websocket.Upgrader
}

func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients: make(map[uint64]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Printf("WebSocket connection rejected from origin: %s", origin)
				return false
			},
		},
	}
}

// Push sends an event to the user's channel if they are connected.
func (h *Hub) Push(userID uint64, event interface{}) {
	h.mu.RLock()
	cl, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := cl.writeJSON(event); err != nil {
		log.Printf("Failed to push event to user %d: %v", userID, err)
		h.evict(userID, cl)
	}
}

// Serve upgrades the request and keeps the connection alive until the client
// disconnects. Callers must have authenticated userID already.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for user %d: %v", userID, err)
		return
	}

	cl := &client{conn: conn}
	h.register(userID, cl)
	defer h.evict(userID, cl)

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := cl.writeJSON(map[string]string{"type": "connected"}); err != nil {
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %d: %v", userID, err)
			}
			return
		}
	}
}

func (h *Hub) register(userID uint64, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reconnect replaces the previous connection.
	if existing, ok := h.clients[userID]; ok {
		existing.conn.Close()
	}
	h.clients[userID] = cl
	log.Printf("WebSocket client connected: user %d (total: %d)", userID, len(h.clients))
}

func (h *Hub) evict(userID uint64, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[userID]; ok && current == cl {
		delete(h.clients, userID)
		log.Printf("WebSocket client disconnected: user %d (total: %d)", userID, len(h.clients))
	}
	cl.conn.Close()
}
