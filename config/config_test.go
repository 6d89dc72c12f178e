package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytesYAML(t *testing.T) {
	yamlBytes := []byte(`
server:
  address: broker.local:1883
  transport: tcp
client:
  client_id: t1
  username: alice
  password: melon
  keepalive: 60
  clean_session: true
`)

	c, err := FromBytes(yamlBytes)
	require.NoError(t, err)
	require.Equal(t, "broker.local:1883", c.Server.Address)
	require.Equal(t, "tcp", c.Server.Transport)
	require.Equal(t, "t1", c.Client.ClientID)
	require.Equal(t, "alice", c.Client.Username)
	require.Equal(t, "melon", c.Client.Password)
	require.Equal(t, uint16(60), c.Client.Keepalive)
	require.True(t, c.Client.CleanSession)
}

func TestFromBytesJSON(t *testing.T) {
	jsonBytes := []byte(`{
		"server": {"address": "ws://broker.local:1882/", "transport": "ws"},
		"client": {"client_id": "t1", "keepalive": 30}
	}`)

	c, err := FromBytes(jsonBytes)
	require.NoError(t, err)
	require.Equal(t, "ws://broker.local:1882/", c.Server.Address)
	require.Equal(t, "ws", c.Server.Transport)
	require.Equal(t, "t1", c.Client.ClientID)
	require.Equal(t, uint16(30), c.Client.Keepalive)
	require.False(t, c.Client.CleanSession)
}

func TestFromBytesEmpty(t *testing.T) {
	_, err := FromBytes(nil)
	require.True(t, errors.Is(err, ErrEmptyConfig))

	_, err = FromBytes([]byte{})
	require.True(t, errors.Is(err, ErrEmptyConfig))
}

func TestFromBytesMalformed(t *testing.T) {
	_, err := FromBytes([]byte(`{"server": `))
	require.Error(t, err)

	_, err = FromBytes([]byte("server:\n\taddress: broken-tab-indent"))
	require.Error(t, err)
}
