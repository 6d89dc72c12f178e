package packets

import (
	"bytes"
)

// SubackPacket contains the values of an MQTT SUBACK packet.
type SubackPacket struct {
	FixedHeader

	PacketID    uint16
	ReturnCodes []byte
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *SubackPacket) Encode(buf *bytes.Buffer) error {
	pk.FixedHeader.Remaining = 2 + len(pk.ReturnCodes)
	pk.FixedHeader.Encode(buf)
	buf.Write(encodeUint16(pk.PacketID))
	buf.Write(pk.ReturnCodes)

	return nil
}

// Decode extracts the data values from the packet. The return codes are a
// view into buf.
func (pk *SubackPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.PacketID, offset, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.ReturnCodes = buf[offset:]

	return nil
}

// Validate ensures the packet is compliant.
func (pk *SubackPacket) Validate() (byte, error) {
	return Accepted, nil
}
