package packets

import (
	"errors"
)

// CONNACK return codes, and the generic accepted/failed codes used by
// packet validation.
const (
	Accepted                      byte = 0x00
	CodeConnectBadProtocolVersion byte = 0x01
	CodeConnectBadClientID        byte = 0x02
	CodeConnectServerUnavailable  byte = 0x03
	CodeConnectBadAuthValues      byte = 0x04
	CodeConnectNotAuthorised      byte = 0x05
	Failed                        byte = 0xFF
)

var (
	// CONNECT
	ErrMalformedProtocolName    = errors.New("malformed packet: protocol name")
	ErrMalformedProtocolVersion = errors.New("malformed packet: protocol version")
	ErrMalformedFlags           = errors.New("malformed packet: flags")
	ErrMalformedKeepalive       = errors.New("malformed packet: keepalive")
	ErrMalformedClientID        = errors.New("malformed packet: client id")
	ErrMalformedUsername        = errors.New("malformed packet: username")
	ErrMalformedPassword        = errors.New("malformed packet: password")

	// CONNACK
	ErrMalformedSessionPresent = errors.New("malformed packet: session present")
	ErrMalformedReturnCode     = errors.New("malformed packet: return code")

	// PUBLISH
	ErrMalformedTopic = errors.New("malformed packet: topic name")
	ErrTopicTooLong   = errors.New("malformed packet: topic name exceeds maximum length")

	// SUBSCRIBE / UNSUBSCRIBE
	ErrMalformedQoS    = errors.New("malformed packet: qos")
	ErrMissingPacketID = errors.New("missing packet id")
	ErrNoTopics        = errors.New("no topics provided")

	// PACKETS
	ErrMalformedPacketID            = errors.New("malformed packet: packet id")
	ErrMalformedVariableByteInteger = errors.New("malformed packet: variable byte integer out of range")
	ErrOffsetUintOutOfRange         = errors.New("offset uint out of range")
	ErrOffsetBytesOutOfRange        = errors.New("offset bytes out of range")
	ErrInvalidUTF8                  = errors.New("offset string invalid utf-8")
	ErrInvalidFlags                 = errors.New("invalid flags set for packet")
)
