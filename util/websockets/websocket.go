package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		direct:     make(chan UserMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run starts the WebSocket manager. It returns after Stop.
func (manager *WebSocketManager) Run() {
	for {
		select {
		case <-manager.done:
			manager.mu.Lock()
			for conn := range manager.clients {
				conn.Close()
				delete(manager.clients, conn)
			}
			manager.mu.Unlock()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("Client of user %d disconnected", client.UserID)
			}
			manager.mu.Unlock()

		case msg := <-manager.direct:
			manager.mu.Lock()
			for conn, client := range manager.clients {
				if client.UserID != msg.UserID {
					continue
				}
				if err := client.write(msg.Payload); err != nil {
					conn.Close()
					delete(manager.clients, conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

func (manager *WebSocketManager) Stop() {
	select {
	case <-manager.done:
	default:
		close(manager.done)
	}
}

// SendToUser queues payload for every session of userID. Payloads are
// dropped when the queue is full or the manager has stopped.
func (manager *WebSocketManager) SendToUser(userID int64, payload []byte) {
	select {
	case manager.direct <- UserMessage{UserID: userID, Payload: payload}:
	case <-manager.done:
	default:
		log.Printf("websocket queue full, dropping message for user %d", userID)
	}
}

// Sessions counts the open sessions of userID.
func (manager *WebSocketManager) Sessions(userID int64) int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	n := 0
	for _, c := range manager.clients {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

// HandleConnections upgrades an authenticated request to a WebSocket
// session for userID.
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{Conn: conn, UserID: userID}
	select {
	case manager.register <- client:
	case <-manager.done:
		conn.Close()
		return
	}

	defer func() {
		select {
		case manager.unregister <- conn:
		case <-manager.done:
		}
	}()

	welcome, _ := json.Marshal(map[string]interface{}{"type": MsgTypeWelcome, "user_id": userID})
	if err := client.write(welcome); err != nil {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		switch message.Type {
		case MsgTypeSubscribe:
			manager.mu.Lock()
			client.Latitude = message.Latitude
			client.Longitude = message.Longitude
			manager.mu.Unlock()

		case MsgTypePing:
			pong, _ := json.Marshal(map[string]string{"type": MsgTypePong})
			if err := client.write(pong); err != nil {
				return
			}
		}
	}
}
