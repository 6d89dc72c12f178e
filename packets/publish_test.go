package packets

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishEncode(t *testing.T) {
	pk := &PublishPacket{
		FixedHeader: NewFixedHeader(Publish),
		TopicName:   "a/b",
		Payload:     []byte("hi"),
	}

	buf := new(bytes.Buffer)
	err := pk.Encode(buf)
	require.NoError(t, err)

	require.Equal(t, []byte{
		0x30, 0x07, // fixed header
		0x00, 0x03, 'a', '/', 'b', // topic
		'h', 'i', // payload
	}, buf.Bytes())
}

func TestPublishEncodeRetain(t *testing.T) {
	pk := &PublishPacket{
		FixedHeader: FixedHeader{Type: Publish, Retain: true},
		TopicName:   "a/b",
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	require.Equal(t, byte(0x31), buf.Bytes()[0])
}

func TestPublishEncodeInvalid(t *testing.T) {
	buf := new(bytes.Buffer)

	pk := &PublishPacket{FixedHeader: NewFixedHeader(Publish)}
	err := pk.Encode(buf)
	require.True(t, errors.Is(err, ErrMalformedTopic))
	require.Zero(t, buf.Len())

	pk = &PublishPacket{
		FixedHeader: FixedHeader{Type: Publish, Qos: 1},
		TopicName:   "a/b",
	}
	err = pk.Encode(buf)
	require.True(t, errors.Is(err, ErrMalformedQoS))
	require.Zero(t, buf.Len())
}

func TestPublishDecode(t *testing.T) {
	pk := new(PublishPacket)
	err := pk.Decode([]byte{0x00, 0x03, 'a', '/', 'b', 'h', 'i'})
	require.NoError(t, err)
	require.Equal(t, "a/b", pk.TopicName)
	require.Equal(t, []byte("hi"), pk.Payload)
}

func TestPublishDecodeEmptyPayload(t *testing.T) {
	pk := new(PublishPacket)
	err := pk.Decode([]byte{0x00, 0x03, 'a', '/', 'b'})
	require.NoError(t, err)
	require.Equal(t, "a/b", pk.TopicName)
	require.Empty(t, pk.Payload)
}

func TestPublishDecodeTopicTooLong(t *testing.T) {
	raw := append([]byte{0x01, 0x2C}, bytes.Repeat([]byte{'t'}, 300)...) // 300-byte topic

	pk := new(PublishPacket)
	err := pk.Decode(raw)
	require.True(t, errors.Is(err, ErrTopicTooLong))
}

func TestPublishDecodePayloadIsView(t *testing.T) {
	raw := []byte{0x00, 0x01, 't', 'x'}

	pk := new(PublishPacket)
	require.NoError(t, pk.Decode(raw))

	raw[3] = 'y'
	require.Equal(t, []byte("y"), pk.Payload)
}
