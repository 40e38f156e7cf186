package tracking

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"courier/internal/domain"
)

const (
	writeWait = 10 * time.Second
	// sendQueueSize bounds the updates buffered for one client. A client
	// whose queue is full is dropped.
	sendQueueSize = 16
)

type client struct {
	userID int64
	conn   *websocket.Conn
	role   domain.Role
	send   chan interface{}
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
}

func newClient(userID int64, role domain.Role, conn *websocket.Conn) *client {
	return &client{
		userID: userID,
		conn:   conn,
		role:   role,
		send:   make(chan interface{}, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// enqueue never blocks. It reports false when the client is closed or its
// queue is full.
func (c *client) enqueue(v interface{}) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

// gorilla connections allow one concurrent writer.
func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump drains the send queue until the client closes or a write fails.
func (h *Hub) writePump(c *client) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.writeJSON(msg); err != nil {
				h.log.WithError(err).WithField("user_id", c.userID).Debug("tracking write failed")
				h.Unregister(c.userID, c)
				return
			}
		}
	}
}

// Hub holds one live connection per account. Customers receive updates for
// their own bookings; officers receive every update.
type Hub struct {
	connections map[int64]*client
	mutex       sync.RWMutex
	log         *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		connections: make(map[int64]*client),
		log:         log,
	}
}

func (h *Hub) Register(userID int64, role domain.Role, conn *websocket.Conn) *client {
	c := newClient(userID, role, conn)

	h.mutex.Lock()
	if old, exists := h.connections[userID]; exists && old != nil {
		old.close()
	}
	h.connections[userID] = c
	h.mutex.Unlock()

	go h.writePump(c)
	return c
}

// Unregister drops c only if it is still the user's current connection, so a
// superseded connection cannot evict its replacement.
func (h *Hub) Unregister(userID int64, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, exists := h.connections[userID]; exists && cur == c {
		delete(h.connections, userID)
	}
	c.close()
}

// SendToUser queues message for userID's connection and returns without
// waiting for the write. A client that cannot keep up is disconnected.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists || c == nil {
		return false
	}

	if !c.enqueue(message) {
		h.log.WithField("user_id", userID).Warn("tracking client too slow, disconnecting")
		h.Unregister(userID, c)
		return false
	}
	return true
}

// BroadcastToRole sends to every connected account with the role, skipping
// except. It returns the number of successful deliveries.
func (h *Hub) BroadcastToRole(role domain.Role, except int64, message interface{}) int {
	h.mutex.RLock()
	targets := make([]int64, 0, len(h.connections))
	for id, c := range h.connections {
		if c.role == role && id != except {
			targets = append(targets, id)
		}
	}
	h.mutex.RUnlock()

	sent := 0
	for _, id := range targets {
		if h.SendToUser(id, message) {
			sent++
		}
	}
	return sent
}

// PublishStatus delivers a committed status change. Delivery is best effort.
func (h *Hub) PublishStatus(customerID int64, update domain.StatusUpdate) {
	delivered := h.SendToUser(customerID, update)
	officers := h.BroadcastToRole(domain.RoleOfficer, customerID, update)

	h.log.WithFields(logrus.Fields{
		"booking_id":  update.BookingID,
		"customer_id": customerID,
		"status":      update.ToStatus,
		"delivered":   delivered,
		"officers":    officers,
	}).Debug("tracking update published")
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		if c != nil {
			c.close()
		}
		delete(h.connections, userID)
	}
}
