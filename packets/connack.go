package packets

import (
	"bytes"
)

// ConnackPacket contains the values of an MQTT CONNACK packet.
type ConnackPacket struct {
	FixedHeader

	SessionPresent bool
	ReturnCode     byte
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *ConnackPacket) Encode(buf *bytes.Buffer) error {
	pk.FixedHeader.Remaining = 2
	pk.FixedHeader.Encode(buf)
	buf.WriteByte(encodeBool(pk.SessionPresent))
	buf.WriteByte(pk.ReturnCode)

	return nil
}

// Decode extracts the data values from the packet.
func (pk *ConnackPacket) Decode(buf []byte) error {
	if len(buf) < 1 {
		return ErrMalformedSessionPresent
	}
	pk.SessionPresent = buf[0]&0x01 > 0

	if len(buf) < 2 {
		return ErrMalformedReturnCode
	}
	pk.ReturnCode = buf[1]

	return nil
}

// Validate ensures the packet is compliant.
func (pk *ConnackPacket) Validate() (byte, error) {
	return Accepted, nil
}
