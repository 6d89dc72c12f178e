package packets

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
	"unsafe"
)

// bytesToString provides a zero-alloc no-copy byte to string conversion.
// via https://github.com/golang/go/issues/25484#issuecomment-391415660
func bytesToString(bs []byte) string {
	return *(*string)(unsafe.Pointer(&bs))
}

// decodeUint16 extracts the value of two bytes from a byte array.
func decodeUint16(buf []byte, offset int) (uint16, int, error) {
	if len(buf) < offset+2 {
		return 0, 0, ErrOffsetUintOutOfRange
	}

	return binary.BigEndian.Uint16(buf[offset : offset+2]), offset + 2, nil
}

// decodeString extracts a length-prefixed UTF-8 string from a byte array,
// beginning at an offset.
func decodeString(buf []byte, offset int) (string, int, error) {
	b, n, err := decodeBytes(buf, offset)
	if err != nil {
		return "", 0, err
	}

	if !validUTF8(b) { // [MQTT-1.5.3-1]
		return "", 0, ErrInvalidUTF8
	}

	return bytesToString(b), n, nil
}

// decodeTopic extracts a length-prefixed topic name, failing with an
// explicit error when the topic exceeds max bytes.
func decodeTopic(buf []byte, offset, max int) (string, int, error) {
	length, _, err := decodeUint16(buf, offset)
	if err != nil {
		return "", 0, err
	}

	if int(length) > max {
		return "", 0, ErrTopicTooLong
	}

	return decodeString(buf, offset)
}

// validUTF8 checks if the byte array contains valid UTF-8 characters
// and no null bytes.
func validUTF8(b []byte) bool {
	return utf8.Valid(b) && bytes.IndexByte(b, 0x00) == -1 // [MQTT-1.5.3-1] [MQTT-1.5.3-2]
}

// decodeBytes extracts a length-prefixed byte array from a byte array,
// beginning at an offset.
func decodeBytes(buf []byte, offset int) ([]byte, int, error) {
	length, next, err := decodeUint16(buf, offset)
	if err != nil {
		return nil, 0, err
	}

	if next+int(length) > len(buf) {
		return nil, 0, ErrOffsetBytesOutOfRange
	}

	return buf[next : next+int(length)], next + int(length), nil
}

// encodeBool returns a byte instead of a bool.
func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// encodeUint16 encodes a uint16 value to a byte array.
func encodeUint16(val uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, val)
	return buf
}

// encodeString encodes a string to a 2-byte-length-prefixed byte array.
func encodeString(val string) []byte {
	// In most circumstances the string being encoded is small. Setting
	// the cap to a low amount allows us to account for those without
	// triggering allocation growth on append unless we need to.
	buf := make([]byte, 2, 32)
	binary.BigEndian.PutUint16(buf, uint16(len(val)))
	return append(buf, []byte(val)...)
}

// encodeLength writes the remaining length as a variable-length integer,
// 7 bits per byte with the high bit as a continuation flag, least
// significant group first.
func encodeLength(buf *bytes.Buffer, length int) {
	for {
		digit := byte(length % 128)
		length /= 128
		if length > 0 {
			digit |= 0x80
		}
		buf.WriteByte(digit)
		if length == 0 {
			break // [MQTT-1.5.5-1]
		}
	}
}

// DecodeLength reads a variable-length integer from the head of buf,
// returning the decoded value and the number of bytes consumed. The field
// is expected to be fully present; a field whose fourth byte still has the
// continuation bit set is malformed per the protocol's 4-byte maximum.
func DecodeLength(buf []byte) (length, n int, err error) {
	multiplier := 1
	for {
		if n >= 4 {
			return 0, 0, ErrMalformedVariableByteInteger
		}
		if n >= len(buf) {
			return 0, 0, ErrOffsetBytesOutOfRange
		}

		digit := buf[n]
		length += int(digit&0x7F) * multiplier
		multiplier *= 128
		n++

		if digit&0x80 == 0 {
			break
		}
	}

	return length, n, nil
}

// ProbeLength inspects the head of data for a complete fixed header and
// reports the total size in bytes of the packet it introduces, including
// the fixed header itself. It does not allocate, copy, or interpret the
// type byte. ok is false when the bytes present are not yet sufficient to
// determine the length, or when the length field's multiplier would exceed
// three full continuation groups. The returned total may exceed len(data);
// the caller should wait for more bytes.
func ProbeLength(data []byte) (total int, ok bool) {
	if len(data) < 2 {
		return 0, false
	}

	remaining := 0
	multiplier := 1
	pos := 1

	for {
		if pos >= len(data) {
			return 0, false
		}

		digit := data[pos]
		remaining += int(digit&0x7F) * multiplier
		multiplier *= 128
		pos++

		if multiplier > 128*128*128 {
			return 0, false
		}

		if digit&0x80 == 0 {
			break
		}
	}

	return pos + remaining, true
}
