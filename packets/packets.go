// Package packets provides encoding and decoding of MQTT 3.1.1 control
// packets for a QoS-0 client. Outbound packets are built into byte buffers;
// inbound packets are decoded from slices of a reassembled byte stream.
package packets

import (
	"bytes"
)

// All of the valid packet types and their packet identifier.
const (
	Reserved    byte = iota
	Connect          // 1
	Connack          // 2
	Publish          // 3
	Puback           // 4
	Pubrec           // 5
	Pubrel           // 6
	Pubcomp          // 7
	Subscribe        // 8
	Suback           // 9
	Unsubscribe      // 10
	Unsuback         // 11
	Pingreq          // 12
	Pingresp         // 13
	Disconnect       // 14
)

// Names is a map that provides human-readable names for the different
// MQTT packet types based on their ids.
var Names = map[byte]string{
	0:  "RESERVED",
	1:  "CONNECT",
	2:  "CONNACK",
	3:  "PUBLISH",
	4:  "PUBACK",
	5:  "PUBREC",
	6:  "PUBREL",
	7:  "PUBCOMP",
	8:  "SUBSCRIBE",
	9:  "SUBACK",
	10: "UNSUBSCRIBE",
	11: "UNSUBACK",
	12: "PINGREQ",
	13: "PINGRESP",
	14: "DISCONNECT",
}

const (
	// MaxPacketSize is the largest packet the client will dispatch for
	// processing. Larger packets are consumed from the stream and dropped.
	MaxPacketSize = 128 * 1024

	// MaxRemainingLength is the largest value encodable as a
	// variable-length integer (four 7-bit groups).
	MaxRemainingLength = 268435455

	// MaxTopicLength bounds the topic name accepted when parsing an
	// inbound PUBLISH packet.
	MaxTopicLength = 256

	// MaxSubackReturnCodes is the most granted-QoS codes accepted in a
	// single SUBACK packet.
	MaxSubackReturnCodes = 16

	// ProtocolName and ProtocolVersion identify MQTT 3.1.1 in the
	// CONNECT variable header.
	ProtocolName    = "MQTT"
	ProtocolVersion = 4
)

// Packet is the base interface that all MQTT packets must implement.
type Packet interface {

	// Encode encodes a packet into a byte buffer.
	Encode(*bytes.Buffer) error

	// Decode decodes the variable header and payload of a packet,
	// ie. everything after the fixed header, into a packet struct.
	Decode([]byte) error

	// Validate the packet. Returns a return code and error if not valid.
	Validate() (byte, error)
}
