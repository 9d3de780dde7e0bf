package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

const (
	EventTreeChanged   = "tree_changed"
	EventSessionClosed = "session_closed"

	maxInboundMessage = 512
	sendBuffer        = 16
)

// TreeEvent describes one change to a session's tree
type TreeEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Operation string `json:"operation,omitempty"`
	NodeID    string `json:"nodeId,omitempty"`
	IsDirty   bool   `json:"isDirty"`
	UndoDepth int    `json:"undoDepth"`
	RedoDepth int    `json:"redoDepth"`
	Timestamp int64  `json:"timestamp"`
}

// Client is one websocket attached to an editing session
type Client struct {
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte
}

// TreeBroadcaster manages session-scoped websocket clients
type TreeBroadcaster struct {
	sessionClients map[string]map[*Client]bool
	mu             sync.Mutex
	logger         *logging.ChanneledLogger
	pingInterval   time.Duration
	writeTimeout   time.Duration
}

// NewTreeBroadcaster creates a broadcaster
func NewTreeBroadcaster(logger *logging.ChanneledLogger, pingInterval, writeTimeout time.Duration) *TreeBroadcaster {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &TreeBroadcaster{
		sessionClients: make(map[string]map[*Client]bool),
		logger:         logger,
		pingInterval:   pingInterval,
		writeTimeout:   writeTimeout,
	}
}

// Register attaches a client to its session
func (b *TreeBroadcaster) Register(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sessionClients[client.SessionID] == nil {
		b.sessionClients[client.SessionID] = make(map[*Client]bool)
	}
	b.sessionClients[client.SessionID][client] = true
	b.logger.LogSocketEvent("client_registered", client.SessionID, len(b.sessionClients[client.SessionID]))
}

// Unregister detaches a client and closes its send channel. Unregistering
// twice is harmless.
func (b *TreeBroadcaster) Unregister(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unregisterLocked(client)
}

func (b *TreeBroadcaster) unregisterLocked(client *Client) {
	clients, ok := b.sessionClients[client.SessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(b.sessionClients, client.SessionID)
	}
	b.logger.LogSocketEvent("client_unregistered", client.SessionID, len(clients))
}

// Broadcast sends event to every client of its session. Slow clients drop
// the message instead of blocking the caller.
func (b *TreeBroadcaster) Broadcast(event TreeEvent) {
	if event.Type == "" {
		event.Type = EventTreeChanged
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	message, err := json.Marshal(event)
	if err != nil {
		b.logger.Socket().Error("Failed to marshal tree event", "error", err.Error(), "sessionId", event.SessionID)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.sessionClients[event.SessionID] {
		select {
		case client.Send <- message:
		default:
			b.logger.Socket().Warn("Websocket send buffer full, message dropped", "sessionId", event.SessionID)
		}
	}
}

// CloseSession notifies and detaches every client of a session
func (b *TreeBroadcaster) CloseSession(sessionID string) {
	message, _ := json.Marshal(TreeEvent{Type: EventSessionClosed, SessionID: sessionID, Timestamp: time.Now().UnixMilli()})

	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.sessionClients[sessionID] {
		select {
		case client.Send <- message:
		default:
		}
		b.unregisterLocked(client)
	}
}

// ClientCount returns the number of clients attached to a session
func (b *TreeBroadcaster) ClientCount(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessionClients[sessionID])
}

// Serve attaches conn to sessionID and blocks until the connection closes.
// Inbound messages are read only to notice the close.
func (b *TreeBroadcaster) Serve(conn *websocket.Conn, sessionID string) {
	client := &Client{Conn: conn, SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
	b.Register(client)

	done := make(chan struct{})
	go func() {
		b.writePump(client)
		close(done)
	}()

	conn.SetReadLimit(maxInboundMessage)
	conn.SetReadDeadline(time.Now().Add(2 * b.pingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * b.pingInterval))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.Unregister(client)
	<-done
	conn.Close()
}

func (b *TreeBroadcaster) writePump(client *Client) {
	ticker := time.NewTicker(b.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				b.logger.Socket().Debug("Websocket write failed", "error", err.Error(), "sessionId", client.SessionID)
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
