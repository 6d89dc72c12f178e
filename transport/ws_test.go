package transport

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// echoWsServer upgrades incoming requests and echoes binary messages. It
// also sends one text message first, which the transport must discard.
func echoWsServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{
		Subprotocols: []string{"mqtt"},
	}

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte("not mqtt"))

		for {
			op, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if op == websocket.BinaryMessage {
				if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(s.Close)

	return s
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestWebsocketConnectSendServe(t *testing.T) {
	s := echoWsServer(t)

	tr := NewWebsocket(wsURL(s))
	require.NoError(t, tr.Connect())
	defer tr.Close()

	require.Equal(t, ErrAlreadyConnected, tr.Connect())

	var mu sync.Mutex
	var received []byte
	done := make(chan error, 1)

	go tr.Serve(func(b []byte) {
		mu.Lock()
		received = append(received, b...)
		mu.Unlock()
	}, func(err error) {
		done <- err
	})

	payload := []byte{0xC0, 0x00}
	n, err := tr.Send(payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	// Only the binary echo arrives; the text frame is discarded.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == len(payload)
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	require.Equal(t, payload, received)
	mu.Unlock()

	tr.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("serve loop did not exit after close")
	}
}

func TestWebsocketSendNotConnected(t *testing.T) {
	tr := NewWebsocket("ws://127.0.0.1:0/")

	_, err := tr.Send([]byte{0xC0, 0x00})
	require.True(t, errors.Is(err, ErrNotConnected))
}

func TestWebsocketServeNotConnected(t *testing.T) {
	tr := NewWebsocket("ws://127.0.0.1:0/")

	var got error
	tr.Serve(nil, func(err error) { got = err })
	require.True(t, errors.Is(got, ErrNotConnected))
}

func TestWebsocketCloseIdempotent(t *testing.T) {
	s := echoWsServer(t)

	tr := NewWebsocket(wsURL(s))
	require.NoError(t, tr.Connect())

	tr.Close()
	tr.Close()

	_, err := tr.Send([]byte{0xC0, 0x00})
	require.True(t, errors.Is(err, ErrNotConnected))
}
