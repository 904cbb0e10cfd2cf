package notifications

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/slimreset/slimcoach/internal/userctx"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, this should be more restrictive
	},
}

type client struct {
	userID string
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *client) send(n *Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(n)
}

// Hub pushes pending notifications to connected clients. Each connected
// user is re-evaluated on a ticker; a given window fires at most once per
// user per day.
type Hub struct {
	service  *Service
	interval time.Duration

	mu      sync.Mutex
	clients map[string]*client
	sent    map[string]string // "userID:type" -> date last pushed
}

// NewHub creates a push hub polling at the given interval
func NewHub(service *Service, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Hub{
		service:  service,
		interval: interval,
		clients:  make(map[string]*client),
		sent:     make(map[string]string),
	}
}

// Run evaluates connected users until the context is cancelled
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.push(ctx)
		}
	}
}

// HandleWebSocket handles GET /v1/notifications/ws
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("notifications: websocket upgrade failed:", err)
		return
	}

	userID := userctx.UserIDOrDefault(r.Context())
	id := uuid.New().String()
	c := &client{userID: userID, conn: conn}

	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		conn.Close()
	}()

	// push anything already owed so the client does not wait a full tick
	if n, err := h.service.Pending(r.Context(), userID); err == nil && n != nil && h.markSent(userID, n.Type) {
		if err := c.send(n); err != nil {
			return
		}
	}

	// drain reads to detect disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) push(ctx context.Context) {
	h.mu.Lock()
	conns := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		n, err := h.service.Pending(ctx, c.userID)
		if err != nil {
			log.Printf("notifications: pending check failed for %s: %v", c.userID, err)
			continue
		}
		if n == nil || !h.markSent(c.userID, n.Type) {
			continue
		}
		if err := c.send(n); err != nil {
			log.Printf("notifications: push failed for %s: %v", c.userID, err)
		}
	}
}

// markSent records the push and reports whether it is the first for this
// user and type today.
func (h *Hub) markSent(userID, notificationType string) bool {
	today := h.service.now().Format("2006-01-02")
	key := userID + ":" + notificationType

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent[key] == today {
		return false
	}
	h.sent[key] = today
	return true
}
