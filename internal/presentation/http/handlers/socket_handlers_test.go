package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openSessions map[string]bool

func (o openSessions) HasSession(id string) bool { return o[id] }

func newSocketServer(t *testing.T, broadcaster *messaging.TreeBroadcaster) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewSocketHandlers(openSessions{"s1": true}, broadcaster, []string{"http://localhost:4321"}, logging.NewDiscardLogger())
	r := gin.New()
	r.GET("/sessions/:id/ws", h.GetSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestSocketReceivesTreeEvents(t *testing.T) {
	broadcaster := messaging.NewTreeBroadcaster(logging.NewDiscardLogger(), time.Second, time.Second)
	srv := newSocketServer(t, broadcaster)

	header := http.Header{"Origin": []string{"http://localhost:4321"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/sessions/s1/ws", header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return broadcaster.ClientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	broadcaster.Broadcast(messaging.TreeEvent{Type: messaging.EventTreeChanged, SessionID: "s1", Operation: "insert"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev messaging.TreeEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "insert", ev.Operation)
}

func TestSocketRejectsUnknownSessionAndOrigin(t *testing.T) {
	broadcaster := messaging.NewTreeBroadcaster(logging.NewDiscardLogger(), time.Second, time.Second)
	srv := newSocketServer(t, broadcaster)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/sessions/nope/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"/sessions/s1/ws", http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
