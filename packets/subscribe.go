package packets

import (
	"bytes"
)

// SubscribePacket contains the values of an MQTT SUBSCRIBE packet.
type SubscribePacket struct {
	FixedHeader

	PacketID uint16
	Topics   []string
	Qoss     []byte
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *SubscribePacket) Encode(buf *bytes.Buffer) error {
	if _, err := pk.Validate(); err != nil {
		return err
	}

	var body bytes.Buffer
	body.Write(encodeUint16(pk.PacketID))

	for i, topic := range pk.Topics {
		body.Write(encodeString(topic))
		body.WriteByte(pk.Qoss[i] & 0x03)
	}

	// [MQTT-3.8.1-1] The SUBSCRIBE fixed header carries mandatory flags
	// 0x02, regardless of the requested subscription QoS.
	pk.FixedHeader.Qos = 1
	pk.FixedHeader.Remaining = body.Len()
	pk.FixedHeader.Encode(buf)
	buf.Write(body.Bytes())

	return nil
}

// Decode extracts the data values from the packet.
func (pk *SubscribePacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.PacketID, offset, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.Topics = nil
	pk.Qoss = nil
	for offset < len(buf) {
		var topic string
		topic, offset, err = decodeString(buf, offset)
		if err != nil {
			return ErrMalformedTopic
		}

		if offset >= len(buf) {
			return ErrMalformedQoS
		}

		pk.Topics = append(pk.Topics, topic)
		pk.Qoss = append(pk.Qoss, buf[offset])
		offset++
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *SubscribePacket) Validate() (byte, error) {

	// [MQTT-2.3.1-1] SUBSCRIBE packets must contain a non-zero packet id.
	if pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	if len(pk.Topics) == 0 || len(pk.Topics) != len(pk.Qoss) {
		return Failed, ErrNoTopics
	}

	for i, topic := range pk.Topics {
		if topic == "" {
			return Failed, ErrMalformedTopic
		}
		if pk.Qoss[i] > 2 {
			return Failed, ErrMalformedQoS
		}
	}

	return Accepted, nil
}
