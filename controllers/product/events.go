package productcontroller

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/Ricci-ricci/backend/metrics"
	"github.com/Ricci-ricci/backend/models"
	"github.com/Ricci-ricci/backend/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	EventCreated  = "product.created"
	EventUpdated  = "product.updated"
	EventDeleted  = "product.deleted"
	EventImported = "catalog.imported"

	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Event is pushed to every catalog subscriber.
type Event struct {
	Type      string          `json:"type"`
	Product   *models.Product `json:"product,omitempty"`
	ProductID string          `json:"productId,omitempty"`
	Created   int             `json:"created,omitempty"`
	Updated   int             `json:"updated,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans catalog events out to websocket subscribers. A nil *Hub
// discards events.
type Hub struct {
	mu       sync.Mutex
	clients  map[*subscriber]struct{}
	upgrader websocket.Upgrader
}

// NewHub accepts upgrades from the given origins; "*" allows any.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// GET /api/products/ws
func (h *Hub) ServeWS(c *gin.Context) {
	if h == nil {
		response.Error(c, apperrors.NotFound("Catalog feed is not enabled"))
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("⚠️ Catalog websocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(sub)
	go sub.writeLoop()

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
	conn.Close()
}

func (s *subscriber) writeLoop() {
	for msg := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.conn.Close()
			return
		}
	}
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.clients[s] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.SetCatalogClients(n)
}

// remove closes the subscriber's queue once.
func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[s]; ok {
		delete(h.clients, s)
		close(s.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.SetCatalogClients(n)
}

// Broadcast queues ev for every subscriber. Subscribers whose queue is
// full are dropped.
func (h *Hub) Broadcast(ev Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("❌ Failed to encode catalog event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		select {
		case s.send <- data:
		default:
			delete(h.clients, s)
			close(s.send)
		}
	}
}

func (h *Hub) Count() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		delete(h.clients, s)
		close(s.send)
	}
}
