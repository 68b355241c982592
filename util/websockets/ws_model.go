package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types sent by browsers.
const (
	MsgTypeSubscribe = "subscribe"
	MsgTypePing      = "ping"
)

// Message types sent by the server.
const (
	MsgTypePong    = "pong"
	MsgTypeWelcome = "welcome"
)

// Client represents one open map session.
type Client struct {
	Conn   *websocket.Conn
	UserID int64
	// Viewport centre last reported by the session.
	Latitude  float64
	Longitude float64
	mu        sync.Mutex
}

func (c *Client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, payload)
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	direct     chan UserMessage
	register   chan *Client
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
}

// UserMessage is a payload for every session of one user.
type UserMessage struct {
	UserID  int64
	Payload []byte
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}
