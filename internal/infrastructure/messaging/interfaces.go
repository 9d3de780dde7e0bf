// Package messaging pushes tree change notifications to the browsers
// attached to an editing session.
package messaging

// Broadcaster delivers tree events to the clients of one editing session
type Broadcaster interface {
	Broadcast(event TreeEvent)
	CloseSession(sessionID string)
	ClientCount(sessionID string) int
}

// NopBroadcaster drops every event
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(TreeEvent)    {}
func (NopBroadcaster) CloseSession(string)    {}
func (NopBroadcaster) ClientCount(string) int { return 0 }
