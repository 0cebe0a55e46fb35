package signer

import (
	"strings"
	"time"
)

// SigningConfig is the value a SigningConfigFactory hands to the signer.
// Empty fields fall back to the connection options and then to defaults.
type SigningConfig struct {
	// Service overrides the credential scope service name.
	Service string

	// Time is a full SigV4 timestamp (YYYYMMDDTHHMMSSZ).
	Time string

	// Credentials replaces the configured credentials for this call.
	Credentials *Credentials
}

// SigningConfigFactory produces the signing config for one signing attempt.
type SigningConfigFactory func() SigningConfig

// WebsocketOptions configures how the websocket URL is produced.
type WebsocketOptions struct {
	// Protocol is ProtocolWSS or ProtocolWSSCustomAuth. Empty means ProtocolWSS.
	Protocol Protocol

	// Headers are passed to the transport with the upgrade request. They
	// are not signed.
	Headers map[string]string

	// Service overrides DefaultService.
	Service string

	// CreateSigningConfig, when set, supplies the signing config. It has
	// precedence over Service and Credentials.
	CreateSigningConfig SigningConfigFactory

	// Credentials are the static credentials, and the holder a refresher
	// writes into.
	Credentials *Credentials

	// Refresher is called before every signing attempt. When nil,
	// Credentials.Provider is used instead.
	Refresher CredentialRefresher
}

// ConnectionConfig describes the broker endpoint to connect to.
type ConnectionConfig struct {
	// HostName is the broker endpoint host.
	HostName string

	// Path defaults to DefaultPath.
	Path string

	Websocket *WebsocketOptions
}

// Validate checks the fields needed before protocol dispatch.
func (c ConnectionConfig) Validate() error {
	if strings.TrimSpace(c.HostName) == "" {
		return invalidConfigError("host name is required")
	}
	if strings.Contains(c.HostName, "://") || strings.ContainsAny(c.HostName, "/?#") {
		return invalidConfigError("host name must not contain a scheme, path or query")
	}
	return nil
}

// Protocol returns the requested protocol; an unset protocol means ProtocolWSS.
func (c ConnectionConfig) Protocol() Protocol {
	if c.Websocket == nil || c.Websocket.Protocol == "" {
		return ProtocolWSS
	}
	return c.Websocket.Protocol
}

func (c ConnectionConfig) options() *WebsocketOptions {
	if c.Websocket == nil {
		return &WebsocketOptions{}
	}
	return c.Websocket
}

// SigningContext is the fully resolved input of one signing attempt.
type SigningContext struct {
	Service     string
	Time        string
	Date        string
	Host        string
	Path        string
	Credentials Credentials
}

// resolveSigningContext applies the precedence factory value > options >
// defaults, once, before any hashing starts.
func resolveSigningContext(cfg ConnectionConfig, creds *Credentials, now time.Time) (SigningContext, error) {
	opts := cfg.options()

	var factory SigningConfig
	if opts.CreateSigningConfig != nil {
		factory = opts.CreateSigningConfig()
	}

	service := firstNonEmpty(factory.Service, opts.Service, DefaultService)

	timestamp := strings.TrimSpace(factory.Time)
	if timestamp == "" {
		timestamp = CanonicalTime(&now)
	} else if _, err := time.Parse(TimeFormat, timestamp); err != nil {
		return SigningContext{}, invalidConfigError("signing time must use the " + TimeFormat + " layout")
	}

	if factory.Credentials != nil {
		creds = factory.Credentials
	}
	if err := creds.Validate(); err != nil {
		return SigningContext{}, err
	}

	return SigningContext{
		Service:     service,
		Time:        timestamp,
		Date:        CanonicalDay(timestamp),
		Host:        SanitizeHost(SchemeWSS, cfg.HostName),
		Path:        normalizePath(cfg.Path),
		Credentials: creds.snapshot(),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
