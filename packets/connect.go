package packets

import (
	"bytes"
)

// ConnectPacket contains the values of an MQTT CONNECT packet.
type ConnectPacket struct {
	FixedHeader

	ProtocolName     string
	ProtocolVersion  byte
	CleanSession     bool
	UsernameFlag     bool
	PasswordFlag     bool
	Keepalive        uint16
	ClientIdentifier string
	Username         string
	Password         string
}

// Encode encodes and writes the packet data values to the buffer.
func (pk *ConnectPacket) Encode(buf *bytes.Buffer) error {
	if _, err := pk.Validate(); err != nil {
		return err
	}

	if pk.ProtocolName == "" {
		pk.ProtocolName = ProtocolName
	}
	if pk.ProtocolVersion == 0 {
		pk.ProtocolVersion = ProtocolVersion
	}

	protoName := encodeString(pk.ProtocolName)
	flag := encodeBool(pk.CleanSession)<<1 | encodeBool(pk.PasswordFlag)<<6 | encodeBool(pk.UsernameFlag)<<7
	keepalive := encodeUint16(pk.Keepalive)
	clientID := encodeString(pk.ClientIdentifier)

	var username, password []byte
	if pk.UsernameFlag {
		username = encodeString(pk.Username)
	}
	if pk.PasswordFlag {
		password = encodeString(pk.Password)
	}

	pk.FixedHeader.Remaining = len(protoName) + 1 + 1 + len(keepalive) +
		len(clientID) + len(username) + len(password)
	pk.FixedHeader.Encode(buf)

	buf.Write(protoName)
	buf.WriteByte(pk.ProtocolVersion)
	buf.WriteByte(flag)
	buf.Write(keepalive)
	buf.Write(clientID)
	buf.Write(username)
	buf.Write(password)

	return nil
}

// Decode extracts the data values from the packet.
func (pk *ConnectPacket) Decode(buf []byte) error {
	var offset int
	var err error

	pk.ProtocolName, offset, err = decodeString(buf, 0)
	if err != nil {
		return ErrMalformedProtocolName
	}

	if offset >= len(buf) {
		return ErrMalformedProtocolVersion
	}
	pk.ProtocolVersion = buf[offset]
	offset++

	if offset >= len(buf) {
		return ErrMalformedFlags
	}
	flags := buf[offset]
	pk.CleanSession = flags&0x02 > 0
	pk.PasswordFlag = flags&0x40 > 0
	pk.UsernameFlag = flags&0x80 > 0
	offset++

	pk.Keepalive, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedKeepalive
	}

	pk.ClientIdentifier, offset, err = decodeString(buf, offset)
	if err != nil {
		return ErrMalformedClientID
	}

	if pk.UsernameFlag {
		pk.Username, offset, err = decodeString(buf, offset)
		if err != nil {
			return ErrMalformedUsername
		}
	}

	if pk.PasswordFlag {
		pk.Password, _, err = decodeString(buf, offset)
		if err != nil {
			return ErrMalformedPassword
		}
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *ConnectPacket) Validate() (byte, error) {

	// A non-empty client identifier is required; this client does not
	// request server-assigned ids.
	if pk.ClientIdentifier == "" {
		return CodeConnectBadClientID, ErrMalformedClientID
	}

	return Accepted, nil
}
