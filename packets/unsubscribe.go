package packets

import (
	"bytes"
)

// UnsubscribePacket contains the values of an MQTT UNSUBSCRIBE packet.
type UnsubscribePacket struct {
	FixedHeader

	PacketID uint16
	Topics   []string
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *UnsubscribePacket) Encode(buf *bytes.Buffer) error {
	if _, err := pk.Validate(); err != nil {
		return err
	}

	var body bytes.Buffer

	// [MQTT-2.3.1-1] UNSUBSCRIBE carries a packet identifier in its
	// variable header, the same as SUBSCRIBE.
	body.Write(encodeUint16(pk.PacketID))

	for _, topic := range pk.Topics {
		body.Write(encodeString(topic))
	}

	// [MQTT-3.10.1-1] The UNSUBSCRIBE fixed header carries mandatory
	// flags 0x02.
	pk.FixedHeader.Qos = 1
	pk.FixedHeader.Remaining = body.Len()
	pk.FixedHeader.Encode(buf)
	buf.Write(body.Bytes())

	return nil
}

// Decode extracts the data values from the packet.
func (pk *UnsubscribePacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.PacketID, offset, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.Topics = nil
	for offset < len(buf) {
		var topic string
		topic, offset, err = decodeString(buf, offset)
		if err != nil {
			return ErrMalformedTopic
		}
		pk.Topics = append(pk.Topics, topic)
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *UnsubscribePacket) Validate() (byte, error) {
	if pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	if len(pk.Topics) == 0 {
		return Failed, ErrNoTopics
	}

	for _, topic := range pk.Topics {
		if topic == "" {
			return Failed, ErrMalformedTopic
		}
	}

	return Accepted, nil
}
