package transport

import (
	"net"
	"sync"
)

// TCP is a transport for connecting to a broker over plain TCP.
type TCP struct {
	sync.Mutex

	// address is the broker address to dial.
	address string

	// conn is the open connection.
	conn net.Conn

	// end ensures the close method is only applied once.
	end *sync.Once
}

// NewTCP returns a new TCP transport for the given broker address.
func NewTCP(address string) *TCP {
	return &TCP{
		address: address,
		end:     new(sync.Once),
	}
}

// Connect dials the broker.
func (t *TCP) Connect() error {
	t.Lock()
	defer t.Unlock()

	if t.conn != nil {
		return ErrAlreadyConnected
	}

	conn, err := net.Dial("tcp", t.address)
	if err != nil {
		return err
	}

	t.conn = conn
	t.end = new(sync.Once)

	return nil
}

// Send writes packet bytes to the connection.
func (t *TCP) Send(b []byte) (int, error) {
	t.Lock()
	conn := t.conn
	t.Unlock()

	if conn == nil {
		return 0, ErrNotConnected
	}

	return conn.Write(b)
}

// Serve reads from the connection until it closes, feeding each chunk to
// onData. onClose is invoked once with the terminating error (nil on a
// clean remote close).
func (t *TCP) Serve(onData DataFn, onClose StatusFn) {
	t.Lock()
	conn := t.conn
	t.Unlock()

	if conn == nil {
		if onClose != nil {
			onClose(ErrNotConnected)
		}
		return
	}

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 && onData != nil {
			onData(buf[:n])
		}

		if err != nil {
			if onClose != nil {
				onClose(err)
			}
			return
		}
	}
}

// Close closes the connection.
func (t *TCP) Close() {
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
