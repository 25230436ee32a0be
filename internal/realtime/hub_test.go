package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, userID uint64) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, userID)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event map[string]interface{}
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHub_PushReachesConnectedUser(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub, 7)

	// The handshake event arrives first; once it is read, registration has
	// happened and pushes are deliverable.
	event := readEvent(t, conn)
	require.Equal(t, "connected", event["type"])

	hub.Push(7, map[string]interface{}{"type": "notification", "id": float64(1)})
	event = readEvent(t, conn)
	require.Equal(t, "notification", event["type"])
	require.Equal(t, float64(1), event["id"])
}

func TestHub_ConcurrentPushesToOneConnection(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub, 7)

	event := readEvent(t, conn)
	require.Equal(t, "connected", event["type"])

	// Writes to a connection must be serialized: two requests notifying the
	// same recipient push from separate goroutines.
	const pushes = 50
	var wg sync.WaitGroup
	wg.Add(pushes)
	for i := 0; i < pushes; i++ {
		go func(i int) {
			defer wg.Done()
			hub.Push(7, map[string]interface{}{"type": "notification", "seq": float64(i)})
		}(i)
	}
	wg.Wait()

	seen := make(map[float64]bool)
	for i := 0; i < pushes; i++ {
		event := readEvent(t, conn)
		require.Equal(t, "notification", event["type"])
		seen[event["seq"].(float64)] = true
	}
	require.Len(t, seen, pushes)
}

func TestHub_PushToDisconnectedUserIsNoop(t *testing.T) {
	hub := NewHub(nil)

	// Nobody connected: must not panic or block.
	hub.Push(42, map[string]string{"type": "notification"})
}

func TestHub_RejectsDisallowedOrigin(t *testing.T) {
	hub := NewHub([]string{"http://allowed.example"})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, 7)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.Nil(t, conn)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_ReconnectReplacesConnection(t *testing.T) {
	hub := NewHub(nil)

	first := dialHub(t, hub, 7)
	readEvent(t, first)

	second := dialHub(t, hub, 7)
	readEvent(t, second)

	hub.Push(7, map[string]interface{}{"type": "notification"})
	event := readEvent(t, second)
	require.Equal(t, "notification", event["type"])

	// The replaced connection was closed by the hub.
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
}
