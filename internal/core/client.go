package core

import "strings"

// DefaultEventBuffer is the per-connection outbound buffer used when none is
// configured.
const DefaultEventBuffer = 32

// Client is one live transport connection as seen by the core layer.
type Client struct {
	// ID is the transport connection id. Unique per connection.
	ID string
	// ClientID is the logical player identity, stable across reconnects when
	// the client declares one.
	ClientID string
	Events   chan *Event

	// rooms are the room channels this connection is subscribed to. Owned by
	// the hub loop.
	rooms map[string]struct{}
}

// NewClient constructs a client for a connection with an optional declared id.
func NewClient(connID, declaredID string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Client{
		ID:       connID,
		ClientID: ResolveClientID(connID, declaredID),
		Events:   make(chan *Event, buffer),
		rooms:    make(map[string]struct{}),
	}
}

// ResolveClientID returns the identity to use for a connection: the declared
// id when present, otherwise the connection id itself. A client that
// reconnects without declaring an id is therefore a new player.
func ResolveClientID(connID, declared string) string {
	if id := strings.TrimSpace(declared); id != "" {
		return id
	}
	return connID
}

// Deliver queues an event without blocking. It reports false when the
// consumer is too slow and the event was dropped.
func (c *Client) Deliver(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
