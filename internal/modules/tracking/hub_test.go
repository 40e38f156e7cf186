package tracking

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/pkg/jwt"
	"courier/internal/pkg/logger"
)

type testServer struct {
	hub    *Hub
	tokens *jwt.Service
	url    string
}

func newTestServer(t *testing.T, origins ...string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(logger.Discard())
	tokens := jwt.New("test-secret", time.Hour)
	h := NewWSHandler(hub, tokens, origins, logger.Discard())

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return &testServer{
		hub:    hub,
		tokens: tokens,
		url:    "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/tracking",
	}
}

func (s *testServer) dial(t *testing.T, userID int64, role domain.Role) *websocket.Conn {
	t.Helper()
	token, err := s.tokens.GenerateToken(userID, string(role))
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(s.url+"?token="+token, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return s.hub.IsOnline(userID) }, time.Second, 10*time.Millisecond)
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) domain.StatusUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var u domain.StatusUpdate
	require.NoError(t, conn.ReadJSON(&u))
	return u
}

func sampleUpdate(bookingID string) domain.StatusUpdate {
	return domain.NewStatusUpdate(domain.BookingStatusEvent{
		BookingID:  bookingID,
		FromStatus: domain.ParcelNew,
		ToStatus:   domain.ParcelScheduled,
		CreatedAt:  time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC),
	})
}

func TestHub_DeliversToOwnerAndOfficers(t *testing.T) {
	s := newTestServer(t)
	owner := s.dial(t, 1, domain.RoleCustomer)
	other := s.dial(t, 2, domain.RoleCustomer)
	officer := s.dial(t, 3, domain.RoleOfficer)

	s.hub.PublishStatus(1, sampleUpdate("BK0000000000AA"))

	u := readUpdate(t, owner)
	assert.Equal(t, "status_changed", u.Type)
	assert.Equal(t, "BK0000000000AA", u.BookingID)
	assert.Equal(t, domain.ParcelScheduled, u.ToStatus)
	assert.Equal(t, "Scheduled", u.StatusLabel)

	assert.Equal(t, "BK0000000000AA", readUpdate(t, officer).BookingID)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHub_OfflineCustomerIsSkipped(t *testing.T) {
	s := newTestServer(t)

	assert.False(t, s.hub.SendToUser(99, sampleUpdate("BK0000000000AB")))
	assert.NotPanics(t, func() { s.hub.PublishStatus(99, sampleUpdate("BK0000000000AB")) })
}

func TestHub_ReconnectReplacesConnection(t *testing.T) {
	s := newTestServer(t)
	first := s.dial(t, 1, domain.RoleCustomer)
	second := s.dial(t, 1, domain.RoleCustomer)

	assert.Equal(t, 1, s.hub.GetOnlineCount())

	require.NoError(t, first.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)

	s.hub.PublishStatus(1, sampleUpdate("BK0000000000AC"))
	assert.Equal(t, "BK0000000000AC", readUpdate(t, second).BookingID)
	assert.True(t, s.hub.IsOnline(1))
}

func TestHub_StalledClientDoesNotBlockPublish(t *testing.T) {
	s := newTestServer(t)
	s.dial(t, 1, domain.RoleCustomer)
	officer := s.dial(t, 2, domain.RoleOfficer)

	s.hub.mutex.RLock()
	stalled := s.hub.connections[1]
	s.hub.mutex.RUnlock()
	require.NotNil(t, stalled)

	// holding the write lock parks the writer the way a stuck socket would
	stalled.mu.Lock()
	defer stalled.mu.Unlock()

	start := time.Now()
	dropped := false
	for i := 0; i < sendQueueSize+2; i++ {
		if !s.hub.SendToUser(1, sampleUpdate("BK0000000000AD")) {
			dropped = true
		}
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, dropped)
	assert.False(t, s.hub.IsOnline(1))

	start = time.Now()
	s.hub.PublishStatus(1, sampleUpdate("BK0000000000AE"))
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, s.hub.IsOnline(2))
	assert.Equal(t, "BK0000000000AE", readUpdate(t, officer).BookingID)
}

func TestWSHandler_PingPong(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t, 1, domain.RoleCustomer)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	var ev serverEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "pong", ev.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "INVALID_JSON", ev.Code)
}

func TestWSHandler_RejectsMissingOrBadToken(t *testing.T) {
	s := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(s.url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(s.url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWSHandler_OriginCheck(t *testing.T) {
	s := newTestServer(t, "http://localhost:4200")
	token, err := s.tokens.GenerateToken(1, string(domain.RoleCustomer))
	require.NoError(t, err)

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(s.url+"?token="+token, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "http://localhost:4200")
	conn, resp, err := websocket.DefaultDialer.Dial(s.url+"?token="+token, header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	_ = conn.Close()
}
