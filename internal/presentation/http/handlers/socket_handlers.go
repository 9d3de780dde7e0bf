package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SessionServer attaches websocket connections to editing sessions
type SessionServer interface {
	Serve(conn *websocket.Conn, sessionID string)
	ClientCount(sessionID string) int
}

// SessionChecker reports whether a session is open
type SessionChecker interface {
	HasSession(sessionID string) bool
}

// SocketHandlers upgrades editor connections for change notifications
type SocketHandlers struct {
	sessions SessionChecker
	server   SessionServer
	upgrader websocket.Upgrader
	logger   *logging.ChanneledLogger
}

// NewSocketHandlers creates socket handlers. Browser origins must appear in
// allowedOrigins; requests without an Origin header are accepted.
func NewSocketHandlers(sessions SessionChecker, server SessionServer, allowedOrigins []string, logger *logging.ChanneledLogger) *SocketHandlers {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &SocketHandlers{
		sessions: sessions,
		server:   server,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, allowed)
			},
		},
	}
}

// GetSocket handles GET /api/v1/editor/sessions/:id/ws
func (h *SocketHandlers) GetSocket(c *gin.Context) {
	sessionID := c.Param("id")
	if !h.sessions.HasSession(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.WithContext(logging.ChannelSocket, c.Request.Context()).Warn("WebSocket upgrade failed",
			"sessionId", sessionID, "error", err.Error())
		return
	}

	h.logger.LogSocketEvent("connect", sessionID, h.server.ClientCount(sessionID)+1)
	h.server.Serve(conn, sessionID)
	h.logger.LogSocketEvent("disconnect", sessionID, h.server.ClientCount(sessionID))
}

func originAllowed(r *http.Request, allowed map[string]bool) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || allowed["*"] {
		return true
	}
	if allowed[strings.TrimRight(origin, "/")] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
