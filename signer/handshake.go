package signer

import (
	"context"
	"net/http"
)

// Handshake is everything a websocket dialer needs for the upgrade request.
type Handshake struct {
	URL          string
	Subprotocols []string
	Header       http.Header
}

// Handshake produces the URL for cfg together with the MQTT subprotocol and
// the configured custom headers.
func (s *URLSigner) Handshake(ctx context.Context, cfg ConnectionConfig) (Handshake, error) {
	u, err := s.CreateURL(ctx, cfg)
	if err != nil {
		return Handshake{}, err
	}

	header := make(http.Header)
	for key, value := range cfg.options().Headers {
		header.Set(key, value)
	}

	return Handshake{
		URL:          u,
		Subprotocols: []string{MQTTSubprotocol},
		Header:       header,
	}, nil
}
