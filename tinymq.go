// Package tinymq implements a transport-agnostic MQTT 3.1.1 client
// protocol engine restricted to QoS 0 delivery. The client neither opens
// sockets nor reads clocks: the caller supplies a send function, feeds
// inbound bytes through Input, and drives keep-alive accounting through
// Timer. Fragmented and coalesced reads are reassembled internally, and
// decoded packets are surfaced through optional hook functions. All public
// methods are safe for concurrent use; hooks are always invoked with the
// client's internal lock released, so a hook may re-enter the API.
package tinymq

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tinymq/tinymq/packets"
)

// State indicates the connection state of the client.
type State byte

// The client connection states. Disconnecting is transient: Disconnect
// collapses it to Disconnected before returning.
const (
	Disconnected State = iota
	Connecting
	Connected
	Disconnecting
)

// String returns a human-readable name for a connection state.
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}

// maxMissedPings is the number of consecutive keep-alive intervals which
// may elapse without a PINGRESP before the client force-disconnects.
const maxMissedPings = 3

var (
	ErrMissingClientID     = errors.New("client id is required")
	ErrMissingSendHook     = errors.New("send hook is required")
	ErrNotDisconnected     = errors.New("client is not disconnected")
	ErrAlreadyDisconnected = errors.New("client is already disconnected")
	ErrNotConnected        = errors.New("client is not connected")
	ErrUnsupportedQoS      = errors.New("only qos 0 is supported")
	ErrShortWrite          = errors.New("send hook accepted fewer bytes than required")
	ErrNoData              = errors.New("no data")
	ErrNoTopics            = errors.New("no topics provided")
)

// SendFunc transmits a fully built packet to the broker. It must be
// synchronous; returning n < len(b), or an error, is treated as a failed
// send by every caller.
type SendFunc func(b []byte) (n int, err error)

// Message is an application message, either submitted to Publish or
// surfaced through the OnMessage hook. For inbound messages the Payload
// is a view into the input buffer and is only valid for the duration of
// the hook call; hooks that retain it must copy it.
type Message struct {
	Topic   string
	Payload []byte
	Qos     byte
	Retain  bool
}

// Hooks holds the callback functions through which the client talks back
// to the caller. Send is required; all others are optional and may be nil.
type Hooks struct {

	// Send transmits packet bytes to the broker.
	Send SendFunc

	// OnConnection is called when the connection is established or lost.
	// The reason code is one of the packets.CodeConnect values, or
	// packets.Accepted for a clean disconnect.
	OnConnection func(connected bool, reason byte)

	// OnMessage is called for each inbound PUBLISH packet.
	OnMessage func(m Message)

	// OnPublishAck is called for each inbound PUBACK packet.
	OnPublishAck func(packetID uint16)

	// OnSubscribeAck is called for each inbound SUBACK packet with the
	// granted QoS codes, one per subscribed topic.
	OnSubscribeAck func(packetID uint16, returnCodes []byte)

	// OnUnsubscribeAck is called for each inbound UNSUBACK packet.
	OnUnsubscribeAck func(packetID uint16)
}

// Options contains the client configuration, consumed by New and
// immutable afterwards.
type Options struct {

	// ClientID is the client identifier presented in CONNECT. Required.
	ClientID string

	// Username and Password are optional credentials. A non-empty value
	// sets the corresponding CONNECT flag.
	Username string
	Password string

	// Keepalive is the keep-alive interval in seconds. 0 disables the
	// PINGREQ schedule entirely.
	Keepalive uint16

	// CleanSession requests a clean session from the broker.
	CleanSession bool

	// PacketTimeout and MaxRetries are accepted for forward compatibility
	// with QoS 1/2 delivery; the QoS-0-only engine does not consult them.
	PacketTimeout uint16
	MaxRetries    uint16

	// Logger specifies a custom configured implementation of log/slog to
	// override the client's default logger configuration.
	Logger *slog.Logger
}

// Client is a single-session MQTT client protocol engine.
type Client struct {
	opts  Options
	hooks Hooks
	log   *slog.Logger

	mu           sync.Mutex
	state        State
	nextPacketID uint16
	keepalive    time.Duration // accumulated time since the last PINGREQ
	awaitingPing bool
	missedPings  uint8
	tail         []byte // buffered remainder of a partial inbound packet
}

// New returns a new client for one network session. It validates the
// configuration and hooks but does not connect.
func New(opts Options, hooks Hooks) (*Client, error) {
	if opts.ClientID == "" {
		return nil, ErrMissingClientID
	}

	if hooks.Send == nil {
		return nil, ErrMissingSendHook
	}

	c := &Client{
		opts:  opts,
		hooks: hooks,
		log:   opts.Logger,
		state: Disconnected,
	}

	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return c, nil
}

// Connect builds and sends a CONNECT packet. It fails without any state
// change if the client is not disconnected, if the packet cannot be
// built, or if the send hook does not accept the whole packet. On success
// the client transitions to Connecting; the broker's CONNACK completes
// (or refuses) the connection via the OnConnection hook.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return ErrNotDisconnected
	}
	c.mu.Unlock()

	pk := &packets.ConnectPacket{
		FixedHeader:      packets.NewFixedHeader(packets.Connect),
		CleanSession:     c.opts.CleanSession,
		Keepalive:        c.opts.Keepalive,
		ClientIdentifier: c.opts.ClientID,
		UsernameFlag:     c.opts.Username != "",
		PasswordFlag:     c.opts.Password != "",
		Username:         c.opts.Username,
		Password:         c.opts.Password,
	}

	buf := new(bytes.Buffer)
	if err := pk.Encode(buf); err != nil {
		return err
	}

	if err := c.send(buf.Bytes()); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = Connecting
	c.keepalive = 0
	c.awaitingPing = false
	c.missedPings = 0
	c.tail = nil
	c.mu.Unlock()

	c.log.Debug("sent connect", "client", c.opts.ClientID, "keepalive", c.opts.Keepalive)

	return nil
}

// Disconnect sends a DISCONNECT packet on a best-effort basis, clears the
// reassembly buffer, and transitions to Disconnected. It fails only if the
// client is already disconnected. The OnConnection hook is invoked with
// connected=false.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if c.state == Disconnected {
		c.mu.Unlock()
		return ErrAlreadyDisconnected
	}
	c.state = Disconnecting
	c.mu.Unlock()

	buf := new(bytes.Buffer)
	pk := &packets.DisconnectPacket{FixedHeader: packets.NewFixedHeader(packets.Disconnect)}
	if err := pk.Encode(buf); err == nil {
		_ = c.send(buf.Bytes()) // failure does not block the transition
	}

	c.mu.Lock()
	c.state = Disconnected
	c.tail = nil
	c.mu.Unlock()

	c.log.Debug("disconnected", "client", c.opts.ClientID)

	if c.hooks.OnConnection != nil {
		c.hooks.OnConnection(false, packets.Accepted)
	}

	return nil
}

// Close releases the client, disconnecting first if a session is active.
// The client must not be used after Close.
func (c *Client) Close() error {
	c.mu.Lock()
	active := c.state == Connected || c.state == Connecting
	c.mu.Unlock()

	if active {
		return c.Disconnect()
	}

	c.mu.Lock()
	c.tail = nil
	c.mu.Unlock()

	return nil
}

// Publish sends an application message with QoS 0, fire-and-forget. It
// fails if the topic is empty, the client is not connected, or the
// message requests QoS 1 or 2 (unsupported, never silently downgraded).
// No retry or queueing is performed; a failed send is reported and
// forgotten.
func (c *Client) Publish(m Message) error {
	if m.Topic == "" {
		return packets.ErrMalformedTopic
	}

	if m.Qos != 0 {
		return ErrUnsupportedQoS
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	pk := &packets.PublishPacket{
		FixedHeader: packets.FixedHeader{Type: packets.Publish, Retain: m.Retain},
		TopicName:   m.Topic,
		Payload:     m.Payload,
	}

	// Exact-fit buffer: worst-case length field, topic prefix, payload.
	buf := bytes.NewBuffer(make([]byte, 0, 5+2+len(m.Topic)+len(m.Payload)))
	if err := pk.Encode(buf); err != nil {
		return err
	}

	if err := c.send(buf.Bytes()); err != nil {
		return err
	}

	c.log.Debug("published", "topic", m.Topic, "len", len(m.Payload), "retain", m.Retain)

	return nil
}

// Subscribe sends a SUBSCRIBE packet for the given topics with matching
// requested QoS values, and returns the packet identifier allocated for
// it. Every requested QoS must be 0.
func (c *Client) Subscribe(topics []string, qoss []byte) (uint16, error) {
	if len(topics) == 0 || len(topics) != len(qoss) {
		return 0, ErrNoTopics
	}

	for _, qos := range qoss {
		if qos != 0 {
			return 0, ErrUnsupportedQoS
		}
	}

	if !c.IsConnected() {
		return 0, ErrNotConnected
	}

	pk := &packets.SubscribePacket{
		FixedHeader: packets.NewFixedHeader(packets.Subscribe),
		PacketID:    c.NextPacketID(),
		Topics:      topics,
		Qoss:        qoss,
	}

	buf := new(bytes.Buffer)
	if err := pk.Encode(buf); err != nil {
		return 0, err
	}

	if err := c.send(buf.Bytes()); err != nil {
		return 0, err
	}

	c.log.Debug("sent subscribe", "id", pk.PacketID, "topics", topics)

	return pk.PacketID, nil
}

// Unsubscribe sends an UNSUBSCRIBE packet for the given topics, and
// returns the packet identifier allocated for it.
func (c *Client) Unsubscribe(topics []string) (uint16, error) {
	if len(topics) == 0 {
		return 0, ErrNoTopics
	}

	if !c.IsConnected() {
		return 0, ErrNotConnected
	}

	pk := &packets.UnsubscribePacket{
		FixedHeader: packets.NewFixedHeader(packets.Unsubscribe),
		PacketID:    c.NextPacketID(),
		Topics:      topics,
	}

	buf := new(bytes.Buffer)
	if err := pk.Encode(buf); err != nil {
		return 0, err
	}

	if err := c.send(buf.Bytes()); err != nil {
		return 0, err
	}

	c.log.Debug("sent unsubscribe", "id", pk.PacketID, "topics", topics)

	return pk.PacketID, nil
}

// Timer drives keep-alive accounting. The caller invokes it periodically
// with the time elapsed since the previous call; the client never reads a
// clock itself. While connected with a non-zero keep-alive interval, a
// PINGREQ is sent each time the accumulated time crosses the interval. If
// a previous PINGREQ is still unanswered at the next crossing, a miss is
// counted; at three consecutive misses the client force-disconnects and
// reports "server unavailable" through the OnConnection hook.
func (c *Client) Timer(elapsed time.Duration) {
	c.mu.Lock()

	if c.state != Connected || c.opts.Keepalive == 0 {
		c.mu.Unlock()
		return
	}

	c.keepalive += elapsed
	if c.keepalive < time.Duration(c.opts.Keepalive)*time.Second {
		c.mu.Unlock()
		return
	}
	c.keepalive = 0

	if !c.awaitingPing {
		c.awaitingPing = true
		c.mu.Unlock()

		buf := new(bytes.Buffer)
		pk := &packets.PingreqPacket{FixedHeader: packets.NewFixedHeader(packets.Pingreq)}
		if err := pk.Encode(buf); err == nil {
			_ = c.send(buf.Bytes())
		}

		c.log.Debug("sent pingreq")
		return
	}

	c.missedPings++
	if c.missedPings >= maxMissedPings {
		c.state = Disconnected
		c.tail = nil
		c.mu.Unlock()

		c.log.Warn("keepalive expired, disconnecting", "missed", maxMissedPings)

		if c.hooks.OnConnection != nil {
			c.hooks.OnConnection(false, packets.CodeConnectServerUnavailable)
		}
		return
	}

	c.mu.Unlock()
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected indicates whether the client is currently connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Connected
}

// NextPacketID allocates and returns the next packet identifier. Packet
// identifiers are never 0; the counter wraps from 65535 back to 1.
func (c *Client) NextPacketID() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextPacketID++
	if c.nextPacketID == 0 { // [MQTT-2.3.1-1]
		c.nextPacketID = 1
	}

	return c.nextPacketID
}

// send pushes packet bytes through the send hook, treating a short write
// as a failure.
func (c *Client) send(b []byte) error {
	n, err := c.hooks.Send(b)
	if err != nil {
		return err
	}

	if n != len(b) {
		return ErrShortWrite
	}

	return nil
}
