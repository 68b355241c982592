package websockets

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWithin(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestSendToUserReachesOnlyThatUser(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()
	defer manager.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := int64(1)
		if r.URL.Query().Get("u") == "2" {
			userID = 2
		}
		manager.HandleConnections(w, r, userID)
	}))
	defer srv.Close()

	mine := dial(t, srv)
	assert.Contains(t, readWithin(t, mine), `"welcome"`)

	otherURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?u=2"
	other, _, err := websocket.DefaultDialer.Dial(otherURL, nil)
	require.NoError(t, err)
	defer other.Close()
	assert.Contains(t, readWithin(t, other), `"user_id":2`)

	require.Eventually(t, func() bool { return manager.Sessions(1) == 1 && manager.Sessions(2) == 1 },
		2*time.Second, 10*time.Millisecond)

	manager.SendToUser(1, []byte(`{"type":"place.created"}`))
	assert.Equal(t, `{"type":"place.created"}`, readWithin(t, mine))

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other user must not receive the event")
}

func TestPingPong(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()
	defer manager.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		manager.HandleConnections(w, r, 9)
	}))
	defer srv.Close()

	conn := dial(t, srv)
	readWithin(t, conn)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Contains(t, readWithin(t, conn), "pong")
}
