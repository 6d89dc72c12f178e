package transport

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Websocket is a transport for connecting to a broker over a websocket,
// using binary message framing. [MQTT-6.0.0-1]
type Websocket struct {
	sync.Mutex

	// url is the broker websocket url, eg. ws://broker:1882/.
	url string

	// conn is the open websocket connection.
	conn *websocket.Conn

	// dialer negotiates the mqtt subprotocol.
	dialer *websocket.Dialer

	// end ensures the close method is only applied once.
	end *sync.Once
}

// NewWebsocket returns a new Websocket transport for the given broker url.
func NewWebsocket(url string) *Websocket {
	return &Websocket{
		url: url,
		dialer: &websocket.Dialer{
			Subprotocols: []string{"mqtt"},
		},
		end: new(sync.Once),
	}
}

// Connect dials the broker.
func (t *Websocket) Connect() error {
	t.Lock()
	defer t.Unlock()

	if t.conn != nil {
		return ErrAlreadyConnected
	}

	conn, _, err := t.dialer.Dial(t.url, nil)
	if err != nil {
		return err
	}

	t.conn = conn
	t.end = new(sync.Once)

	return nil
}

// Send writes packet bytes to the connection as a single binary message.
// Writes are serialized; websocket connections support one writer at a
// time.
func (t *Websocket) Send(b []byte) (int, error) {
	t.Lock()
	defer t.Unlock()

	if t.conn == nil {
		return 0, ErrNotConnected
	}

	err := t.conn.WriteMessage(websocket.BinaryMessage, b)
	if err != nil {
		return 0, err
	}

	return len(b), nil
}

// Serve reads messages from the connection until it closes, feeding the
// payload of each binary message to onData. Non-binary messages are
// discarded.
func (t *Websocket) Serve(onData DataFn, onClose StatusFn) {
	t.Lock()
	conn := t.conn
	t.Unlock()

	if conn == nil {
		if onClose != nil {
			onClose(ErrNotConnected)
		}
		return
	}

	for {
		op, payload, err := conn.ReadMessage()
		if err != nil {
			if onClose != nil {
				onClose(err)
			}
			return
		}

		if op == websocket.BinaryMessage && onData != nil {
			onData(payload)
		}
	}
}

// Close closes the connection.
func (t *Websocket) Close() {
	t.Lock()
	defer t.Unlock()

	if t.conn == nil {
		return
	}

	t.end.Do(func() {
		t.conn.Close()
	})
	t.conn = nil
}
