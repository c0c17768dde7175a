package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/LucasAbreu89/crypto-trading/cmd/models"
	"github.com/LucasAbreu89/crypto-trading/cmd/utils"
	"github.com/LucasAbreu89/crypto-trading/service/signals"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one subscribed connection with the entitlement snapshot taken
// when it connected.
type client struct {
	userID uint
	conn   *websocket.Conn
	send   chan []byte

	plan          models.Plan
	selectedPairs []string
}

// FeedHandler fans signal lifecycle events out to connected subscribers,
// filtered by each subscriber's entitlement.
type FeedHandler struct {
	db      *gorm.DB
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewFeedHandler(db *gorm.DB) *FeedHandler {
	return &FeedHandler{
		db:      db,
		clients: make(map[*client]struct{}),
	}
}

func (h *FeedHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/signals", utils.AuthMiddleware(h.HandleFeed))
}

// FeedEvent is the wire format pushed to subscribers.
type FeedEvent struct {
	Type   string        `json:"type"`
	Signal models.Signal `json:"signal"`
}

// HandleFeed upgrades the connection and registers the caller for signal
// broadcasts under their current plan and pair selection.
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	plan, pairs := h.entitlementSnapshot(userID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		userID:        userID,
		conn:          conn,
		send:          make(chan []byte, 256),
		plan:          plan,
		selectedPairs: pairs,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Printf("Signal feed connected for user %d (%s)", userID, plan)

	go c.writePump()
	go h.readPump(c)
}

func (h *FeedHandler) entitlementSnapshot(userID uint) (models.Plan, []string) {
	plan := models.PlanFree
	now := time.Now()

	var subscription models.Subscription
	err := h.db.Where("user_id = ? AND status IN ? AND (current_period_end IS NULL OR current_period_end >= ?)",
		userID, []string{models.SubStatusActive, models.SubStatusTrialing}, now).
		Order("current_period_end DESC NULLS LAST").
		First(&subscription).Error
	if err == nil {
		plan = subscription.Plan
	}

	var prefs models.UserPreferences
	if err := h.db.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return plan, nil
	}
	return plan, prefs.SelectedPairs
}

// readPump drains the connection until it closes. Clients do not send
// anything meaningful; reading keeps control frames flowing.
func (h *FeedHandler) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// PublishSignal delivers a lifecycle event to every subscriber entitled
// to see the signal. Slow consumers are skipped rather than blocking the
// broadcast.
func (h *FeedHandler) PublishSignal(event string, signal models.Signal) {
	payload, err := json.Marshal(FeedEvent{Type: event, Signal: signal})
	if err != nil {
		log.Printf("error marshaling feed event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		visible := signals.VisibleSignals(c.plan, c.selectedPairs, []models.Signal{signal})
		if len(visible) == 0 {
			continue
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}
