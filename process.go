package tinymq

import (
	"github.com/tinymq/tinymq/packets"
)

// processPacket decodes one complete packet and dispatches it, keyed on
// the packet type nibble. Malformed packets are dropped without affecting
// the rest of the stream; unrecognized types are ignored. State mutations
// happen under the lock, which is always released before a hook fires.
func (c *Client) processPacket(data []byte) {
	if len(data) < 2 {
		return
	}

	var fh packets.FixedHeader
	if err := fh.Decode(data[0]); err != nil {
		c.log.Debug("dropping packet with invalid flags", "byte", data[0])
		return
	}

	switch fh.Type {
	case packets.Connack:
		c.processConnack(fh, data)

	case packets.Publish:
		c.processPublish(fh, data)

	case packets.Puback:
		c.processPuback(fh, data)

	case packets.Suback:
		c.processSuback(fh, data)

	case packets.Unsuback:
		c.processUnsuback(fh, data)

	case packets.Pingresp:
		c.mu.Lock()
		c.awaitingPing = false
		c.missedPings = 0
		c.mu.Unlock()
		c.log.Debug("received pingresp")

	case packets.Disconnect:
		// Server-initiated DISCONNECT is non-standard in 3.1.1 but some
		// brokers send it; treat it as a clean close.
		c.mu.Lock()
		c.state = Disconnected
		c.tail = nil
		c.mu.Unlock()

		c.log.Debug("received disconnect from server")

		if c.hooks.OnConnection != nil {
			c.hooks.OnConnection(false, packets.Accepted)
		}

	default:
		c.log.Debug("ignoring packet", "type", packets.Names[fh.Type])
	}
}

func (c *Client) processConnack(fh packets.FixedHeader, data []byte) {
	if len(data) < 4 {
		return
	}

	pk := &packets.ConnackPacket{FixedHeader: fh}
	if err := pk.Decode(data[2:]); err != nil {
		return
	}

	accepted := pk.ReturnCode == packets.Accepted

	c.mu.Lock()
	if accepted {
		c.state = Connected
		c.missedPings = 0
	} else {
		c.state = Disconnected
	}
	c.mu.Unlock()

	c.log.Debug("received connack", "accepted", accepted, "code", pk.ReturnCode)

	if c.hooks.OnConnection != nil {
		c.hooks.OnConnection(accepted, pk.ReturnCode)
	}
}

func (c *Client) processPublish(fh packets.FixedHeader, data []byte) {
	if len(data) < 4 {
		return
	}

	// The client never subscribes above QoS 0, so a publish with QoS bits
	// set carries a packet identifier this engine cannot acknowledge.
	if fh.Qos != 0 {
		c.log.Debug("dropping publish with unsupported qos", "qos", fh.Qos)
		return
	}

	_, n, err := packets.DecodeLength(data[1:])
	if err != nil {
		return
	}

	pk := &packets.PublishPacket{FixedHeader: fh}
	if err := pk.Decode(data[1+n:]); err != nil {
		c.log.Debug("dropping publish", "err", err)
		return
	}

	if c.hooks.OnMessage != nil {
		// Only QoS 0 is supported on receive, so no packet identifier
		// field is consulted. The payload is a view into data.
		c.hooks.OnMessage(Message{
			Topic:   pk.TopicName,
			Payload: pk.Payload,
			Qos:     0,
			Retain:  fh.Retain,
		})
	}
}

func (c *Client) processPuback(fh packets.FixedHeader, data []byte) {
	if len(data) < 4 {
		return
	}

	pk := &packets.PubackPacket{FixedHeader: fh}
	if err := pk.Decode(data[2:]); err != nil {
		return
	}

	if c.hooks.OnPublishAck != nil {
		c.hooks.OnPublishAck(pk.PacketID)
	}
}

func (c *Client) processSuback(fh packets.FixedHeader, data []byte) {
	if len(data) < 5 {
		return
	}

	pk := &packets.SubackPacket{FixedHeader: fh}
	if err := pk.Decode(data[2:]); err != nil {
		return
	}

	if len(pk.ReturnCodes) > packets.MaxSubackReturnCodes {
		return
	}

	if c.hooks.OnSubscribeAck != nil {
		c.hooks.OnSubscribeAck(pk.PacketID, pk.ReturnCodes)
	}
}

func (c *Client) processUnsuback(fh packets.FixedHeader, data []byte) {
	if len(data) < 4 {
		return
	}

	pk := &packets.UnsubackPacket{FixedHeader: fh}
	if err := pk.Decode(data[2:]); err != nil {
		return
	}

	if c.hooks.OnUnsubscribeAck != nil {
		c.hooks.OnUnsubscribeAck(pk.PacketID)
	}
}
