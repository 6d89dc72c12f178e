package packets

import (
	"bytes"
)

// PublishPacket contains the values of an MQTT PUBLISH packet. Only QoS 0
// is supported, so the packet never carries a packet identifier.
type PublishPacket struct {
	FixedHeader

	TopicName string
	Payload   []byte
}

// Encode encodes and writes the packet data values to the buffer. The
// payload bytes are appended directly after the topic, without copying
// or transformation.
func (pk *PublishPacket) Encode(buf *bytes.Buffer) error {
	if _, err := pk.Validate(); err != nil {
		return err
	}

	topic := encodeString(pk.TopicName)

	pk.FixedHeader.Remaining = len(topic) + len(pk.Payload)
	pk.FixedHeader.Encode(buf)
	buf.Write(topic)
	buf.Write(pk.Payload)

	return nil
}

// Decode extracts the data values from the packet. The payload is a view
// into buf, valid only as long as buf itself.
func (pk *PublishPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.TopicName, offset, err = decodeTopic(buf, 0, MaxTopicLength)
	if err != nil {
		return err
	}

	pk.Payload = buf[offset:]

	return nil
}

// Validate ensures the packet is compliant.
func (pk *PublishPacket) Validate() (byte, error) {
	if pk.TopicName == "" {
		return Failed, ErrMalformedTopic
	}

	// [MQTT-2.3.1-5] No packet identifier is encoded, so QoS must be 0.
	if pk.FixedHeader.Qos != 0 {
		return Failed, ErrMalformedQoS
	}

	return Accepted, nil
}
