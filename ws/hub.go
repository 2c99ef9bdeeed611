package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"backend/broker"
	"backend/entity"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Broker is the pub/sub capability the hub needs to keep other backend
// instances in sync. Satisfied by broker.RedisBroker.
type Broker interface {
	Publish(ctx context.Context, channel string, v any)
	Subscribe(channel string, handler func(data []byte))
}

// AccessChecker guards restaurant rooms: only the vendor's own account may
// subscribe to its order feed.
type AccessChecker interface {
	CanJoinRestaurant(userID, restaurantID uint) (bool, error)
}

// Hub is the per-process connection registry. Rooms group live connections
// by recipient identity (user-<id>, restaurant-<id>); the map is rebuilt
// from nothing on restart, clients reconnect. Events published by other
// instances arrive through the broker and are fanned out to local rooms
// only.
type Hub struct {
	rooms      map[string]map[*websocket.Conn]bool // room -> set of conns
	register   chan subscription
	unregister chan subscription
	broadcast  chan roomMessage
	mu         sync.Mutex

	broker Broker
	access AccessChecker
}

type subscription struct {
	Conn  *websocket.Conn
	Rooms []string
}

type roomMessage struct {
	Room  string
	Event wsEvent
}

// wsEvent is the wire shape of every server->client message.
type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func UserRoom(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}

func RestaurantRoom(restaurantID uint) string {
	return fmt.Sprintf("restaurant-%d", restaurantID)
}

func NewHub(b Broker, access AccessChecker) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*websocket.Conn]bool),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		broadcast:  make(chan roomMessage),
		broker:     b,
		access:     access,
	}
}

// Run loops over register/unregister/broadcast for the process lifetime.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			for _, room := range sub.Rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[*websocket.Conn]bool)
				}
				h.rooms[room][sub.Conn] = true
			}
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			for _, room := range sub.Rooms {
				if _, ok := h.rooms[room][sub.Conn]; ok {
					delete(h.rooms[room], sub.Conn)
					if len(h.rooms[room]) == 0 {
						delete(h.rooms, room)
					}
				}
			}
			h.mu.Unlock()
			sub.Conn.Close()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.rooms[msg.Room] {
				if err := conn.WriteJSON(msg.Event); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.rooms[msg.Room], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SubscribeBroker wires the hub to the shared channels. Called once at
// startup, before any local event is published.
func (h *Hub) SubscribeBroker() {
	h.broker.Subscribe(broker.ChannelNewOrder, func(data []byte) {
		var o entity.Order
		if err := json.Unmarshal(data, &o); err != nil {
			log.Printf("ws: bad new_order event: %v", err)
			return
		}
		h.emitNewOrder(&o)
	})
	h.broker.Subscribe(broker.ChannelOrderStatusUpdate, func(data []byte) {
		var o entity.Order
		if err := json.Unmarshal(data, &o); err != nil {
			log.Printf("ws: bad order_status_update event: %v", err)
			return
		}
		h.emitOrderStatusUpdate(&o)
	})
	h.broker.Subscribe(broker.ChannelNotifications, func(data []byte) {
		var n entity.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			log.Printf("ws: bad notification event: %v", err)
			return
		}
		h.emitNotification(n.UserID, &n)
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleOrdersWS upgrades an order-feed connection. The query userId must
// match the authenticated token; restaurant-side clients additionally pass
// restaurantId and must own that restaurant.
func (h *Hub) HandleOrdersWS(c *gin.Context) {
	userID, ok := h.handshakeUser(c)
	if !ok {
		return
	}

	rooms := []string{UserRoom(userID)}
	if raw := c.Query("restaurantId"); raw != "" {
		restID64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad restaurantId"})
			return
		}
		restID := uint(restID64)
		allowed, err := h.access.CanJoinRestaurant(userID, restID)
		if err != nil || !allowed {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "no access"})
			return
		}
		rooms = append(rooms, RestaurantRoom(restID))
	}

	h.upgradeAndJoin(c, rooms)
}

// HandleNotificationsWS upgrades a notification-feed connection; joins the
// user's own room only.
func (h *Hub) HandleNotificationsWS(c *gin.Context) {
	userID, ok := h.handshakeUser(c)
	if !ok {
		return
	}
	h.upgradeAndJoin(c, []string{UserRoom(userID)})
}

// handshakeUser checks the userId handshake parameter against the verified
// token claims. Mismatch or absence ends the connection attempt with no
// registration.
func (h *Hub) handshakeUser(c *gin.Context) (uint, bool) {
	raw := c.Query("userId")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing userId"})
		return 0, false
	}
	claimed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || uint(claimed) != utils.CurrentUserID(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "token mismatch"})
		return 0, false
	}
	return uint(claimed), true
}

func (h *Hub) upgradeAndJoin(c *gin.Context, rooms []string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sub := subscription{Conn: conn, Rooms: rooms}
	h.register <- sub

	go h.listen(sub)
}

// listen drains the connection until it drops. There is no client->server
// event vocabulary; reading only serves disconnect detection and control
// frames.
func (h *Hub) listen(sub subscription) {
	defer func() { h.unregister <- sub }()

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) emit(room string, event string, data any) {
	h.broadcast <- roomMessage{Room: room, Event: wsEvent{Event: event, Data: data}}
}
