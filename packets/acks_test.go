package packets

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnackEncodeDecode(t *testing.T) {
	pk := &ConnackPacket{
		FixedHeader:    NewFixedHeader(Connack),
		SessionPresent: true,
		ReturnCode:     CodeConnectServerUnavailable,
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	require.Equal(t, []byte{0x20, 0x02, 0x01, 0x03}, buf.Bytes())

	dec := new(ConnackPacket)
	require.NoError(t, dec.Decode(buf.Bytes()[2:]))
	require.True(t, dec.SessionPresent)
	require.Equal(t, CodeConnectServerUnavailable, dec.ReturnCode)
}

func TestConnackDecodeMalformed(t *testing.T) {
	err := new(ConnackPacket).Decode([]byte{})
	require.True(t, errors.Is(err, ErrMalformedSessionPresent))

	err = new(ConnackPacket).Decode([]byte{0x00})
	require.True(t, errors.Is(err, ErrMalformedReturnCode))
}

func TestPubackEncodeDecode(t *testing.T) {
	pk := &PubackPacket{FixedHeader: NewFixedHeader(Puback), PacketID: 513}

	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	require.Equal(t, []byte{0x40, 0x02, 0x02, 0x01}, buf.Bytes())

	dec := new(PubackPacket)
	require.NoError(t, dec.Decode(buf.Bytes()[2:]))
	require.Equal(t, uint16(513), dec.PacketID)

	err := new(PubackPacket).Decode([]byte{0x02})
	require.True(t, errors.Is(err, ErrMalformedPacketID))
}

func TestSubackEncodeDecode(t *testing.T) {
	pk := &SubackPacket{
		FixedHeader: NewFixedHeader(Suback),
		PacketID:    15,
		ReturnCodes: []byte{0, 0},
	}

	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	require.Equal(t, []byte{0x90, 0x04, 0x00, 0x0F, 0x00, 0x00}, buf.Bytes())

	dec := new(SubackPacket)
	require.NoError(t, dec.Decode(buf.Bytes()[2:]))
	require.Equal(t, uint16(15), dec.PacketID)
	require.Equal(t, []byte{0, 0}, dec.ReturnCodes)
}

func TestUnsubackEncodeDecode(t *testing.T) {
	pk := &UnsubackPacket{FixedHeader: NewFixedHeader(Unsuback), PacketID: 8}

	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	require.Equal(t, []byte{0xB0, 0x02, 0x00, 0x08}, buf.Bytes())

	dec := new(UnsubackPacket)
	require.NoError(t, dec.Decode(buf.Bytes()[2:]))
	require.Equal(t, uint16(8), dec.PacketID)
}

func TestControlPacketsEncode(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, (&PingreqPacket{FixedHeader: NewFixedHeader(Pingreq)}).Encode(buf))
	require.Equal(t, []byte{0xC0, 0x00}, buf.Bytes())

	buf.Reset()
	require.NoError(t, (&PingrespPacket{FixedHeader: NewFixedHeader(Pingresp)}).Encode(buf))
	require.Equal(t, []byte{0xD0, 0x00}, buf.Bytes())

	buf.Reset()
	require.NoError(t, (&DisconnectPacket{FixedHeader: NewFixedHeader(Disconnect)}).Encode(buf))
	require.Equal(t, []byte{0xE0, 0x00}, buf.Bytes())
}
