package tracking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"courier/internal/domain"
	"courier/internal/pkg/jwt"
	"courier/internal/pkg/response"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type clientMessage struct {
	Type string `json:"type"`
}

type serverEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type WSHandler struct {
	hub      *Hub
	tokens   *jwt.Service
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

// NewWSHandler accepts browser connections only from allowedOrigins; a "*"
// entry allows any origin. Requests without an Origin header are accepted.
func NewWSHandler(hub *Hub, tokens *jwt.Service, allowedOrigins []string, log *logrus.Logger) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	_, anyOrigin := allowed["*"]

	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || anyOrigin {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *WSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/tracking", h.HandleWebSocket)
}

// HandleWebSocket authenticates with ?token=JWT because browsers cannot set
// headers on the upgrade request.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	role := domain.Role(claims.Role)
	if !role.IsValid() {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	userID := claims.UserID
	cl := h.hub.Register(userID, role, conn)
	entry := h.log.WithFields(logrus.Fields{"user_id": userID, "role": role})
	entry.Info("tracking client connected")

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.Unregister(userID, cl)
		entry.Info("tracking client disconnected")
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(cl, done)
	h.readLoop(cl, entry)
}

func (h *WSHandler) pingLoop(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		}
	}
}

// readLoop only answers pings; updates flow server to client. Replies share
// the send queue with updates.
func (h *WSHandler) readLoop(cl *client, entry *logrus.Entry) {
	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				entry.WithError(err).Debug("tracking connection closed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			cl.enqueue(serverEvent{Type: "error", Code: "INVALID_JSON", Message: "Failed to parse message"})
			continue
		}

		switch msg.Type {
		case "ping":
			cl.enqueue(serverEvent{Type: "pong"})
		default:
			cl.enqueue(serverEvent{Type: "error", Code: "UNKNOWN_TYPE", Message: "Unknown message type: " + msg.Type})
		}
	}
}
