// Package config parses file-based configuration for the tinymq command
// line client, accepting either JSON or YAML.
package config

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyConfig indicates the config source contained no data.
	ErrEmptyConfig = errors.New("config data is empty")
)

// Config defines the structure of configuration data to be parsed from a
// config source.
type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Client ClientConfig `yaml:"client" json:"client"`
}

// ServerConfig describes how to reach the broker.
type ServerConfig struct {

	// Address is the broker address: host:port for tcp, a ws:// url for
	// websocket.
	Address string `yaml:"address" json:"address"`

	// Transport selects the transport, "tcp" (default) or "ws".
	Transport string `yaml:"transport" json:"transport"`
}

// ClientConfig carries the protocol-level client options.
type ClientConfig struct {
	ClientID     string `yaml:"client_id" json:"client_id"`
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	Keepalive    uint16 `yaml:"keepalive" json:"keepalive"`
	CleanSession bool   `yaml:"clean_session" json:"clean_session"`
}

// FromBytes unmarshals a byte slice of JSON or YAML config data into a
// Config value.
func FromBytes(b []byte) (*Config, error) {
	c := new(Config)

	if len(b) == 0 {
		return nil, ErrEmptyConfig
	}

	if b[0] == '{' {
		err := json.Unmarshal(b, c)
		if err != nil {
			return nil, err
		}
	} else {
		err := yaml.Unmarshal(b, c)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}
