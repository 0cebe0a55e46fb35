// Package config loads connection settings for the websocket URL signer.
//
// Values are layered: built-in defaults, then a YAML file, then runtime
// overrides such as command line flags. Each layer only carries the keys
// it sets, so an empty runtime value never masks a file value.
package config

import (
	"strings"

	"github.com/forestrie/go-sigv4ws/signer"
)

// Credentials holds the static key material and the hints used to locate
// credentials through the AWS SDK chain.
type Credentials struct {
	Region          string `koanf:"region" mapstructure:"region" yaml:"region"`
	AccessKeyID     string `koanf:"access_key_id" mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key" mapstructure:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `koanf:"session_token" mapstructure:"session_token" yaml:"session_token"`
	Profile         string `koanf:"profile" mapstructure:"profile" yaml:"profile"`
}

// HasStaticKeys reports whether both halves of an access key are set.
func (c Credentials) HasStaticKeys() bool {
	return strings.TrimSpace(c.AccessKeyID) != "" && strings.TrimSpace(c.SecretAccessKey) != ""
}

// Config describes one websocket endpoint and how to sign for it.
type Config struct {
	HostName    string            `koanf:"host_name" mapstructure:"host_name" yaml:"host_name"`
	Path        string            `koanf:"path" mapstructure:"path" yaml:"path"`
	Protocol    string            `koanf:"protocol" mapstructure:"protocol" yaml:"protocol"`
	Service     string            `koanf:"service" mapstructure:"service" yaml:"service"`
	Headers     map[string]string `koanf:"headers" mapstructure:"headers" yaml:"headers"`
	Credentials Credentials       `koanf:"credentials" mapstructure:"credentials" yaml:"credentials"`
}

// DefaultConfig returns the settings used when nothing else is provided.
// HostName has no default and must come from a file or an override.
func DefaultConfig() Config {
	return Config{
		Path:     signer.DefaultPath,
		Protocol: string(signer.ProtocolWSS),
		Service:  signer.DefaultService,
	}
}

// Validate checks the fields that can be judged without contacting AWS.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HostName) == "" {
		return invalidConfig("config: host_name is required")
	}
	switch signer.Protocol(c.Protocol) {
	case "", signer.ProtocolWSS, signer.ProtocolWSSCustomAuth:
	default:
		return invalidConfig("config: unsupported protocol " + c.Protocol)
	}
	if strings.TrimSpace(c.Credentials.AccessKeyID) != "" && strings.TrimSpace(c.Credentials.SecretAccessKey) == "" {
		return invalidConfig("config: credentials.secret_access_key is required with access_key_id")
	}
	if strings.TrimSpace(c.Credentials.SecretAccessKey) != "" && strings.TrimSpace(c.Credentials.AccessKeyID) == "" {
		return invalidConfig("config: credentials.access_key_id is required with secret_access_key")
	}
	return nil
}

// ConnectionConfig converts c into signer input. Static keys, when present,
// are copied into the credential holder; refresher wiring is left to the
// caller.
func (c Config) ConnectionConfig() signer.ConnectionConfig {
	ws := &signer.WebsocketOptions{
		Protocol: signer.Protocol(c.Protocol),
		Service:  c.Service,
	}
	if len(c.Headers) > 0 {
		ws.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			ws.Headers[k] = v
		}
	}
	ws.Credentials = &signer.Credentials{Region: c.Credentials.Region}
	if c.Credentials.HasStaticKeys() {
		ws.Credentials.AccessKeyID = c.Credentials.AccessKeyID
		ws.Credentials.SecretAccessKey = c.Credentials.SecretAccessKey
		ws.Credentials.SessionToken = c.Credentials.SessionToken
	}
	return signer.ConnectionConfig{
		HostName:  c.HostName,
		Path:      c.Path,
		Websocket: ws,
	}
}
