// Package transport provides byte-stream transports for driving a tinymq
// client over a network. A transport owns the socket and its read loop;
// the protocol engine stays transport-agnostic, receiving bytes through a
// data callback and sending through Send.
package transport

import (
	"errors"
)

var (
	// ErrNotConnected indicates the transport has no open connection.
	ErrNotConnected = errors.New("transport is not connected")

	// ErrAlreadyConnected indicates the transport is already connected.
	ErrAlreadyConnected = errors.New("transport is already connected")
)

// DataFn is a callback function invoked with each chunk of bytes read
// from the connection. The slice is only valid for the duration of the
// call.
type DataFn func(b []byte)

// StatusFn is a callback function invoked when the connection drops.
type StatusFn func(err error)

// Transport is an interface for client network transports. A transport
// dials a broker, sends packet bytes synchronously, and serves a read
// loop which feeds inbound bytes to a callback.
type Transport interface {

	// Connect dials the broker.
	Connect() error

	// Send writes b to the connection, returning the number of bytes
	// accepted. Suitable for use as a tinymq send hook.
	Send(b []byte) (int, error)

	// Serve runs the receive loop until the connection closes, invoking
	// onData for each read and onClose exactly once on exit.
	Serve(onData DataFn, onClose StatusFn)

	// Close closes the connection. Safe to call more than once.
	Close()
}

// readBufferSize is the size of the receive buffer used by transports.
const readBufferSize = 4096
