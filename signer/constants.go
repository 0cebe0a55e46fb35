package signer

// Signature Version 4 (SigV4) constants for presigned websocket URLs.

const (
	// EmptyStringSHA256 is the hex encoded SHA256 hash of an empty string.
	// Every websocket handshake is signed with an empty payload, so this is
	// the payload hash line of every canonical request built here.
	EmptyStringSHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// SigningAlgorithm is the SigV4 signing algorithm identifier.
	SigningAlgorithm = "AWS4-HMAC-SHA256"

	// ScopeTerminator closes every credential scope.
	ScopeTerminator = "aws4_request"

	// AmzAlgorithmKey is the query parameter key for signing algorithm.
	AmzAlgorithmKey = "X-Amz-Algorithm"

	// AmzCredentialKey is the query parameter key for credentials.
	AmzCredentialKey = "X-Amz-Credential"

	// AmzDateKey is the query key for the request timestamp.
	// Format: YYYYMMDDTHHMMSSZ (e.g., 20231201T120000Z)
	AmzDateKey = "X-Amz-Date"

	// AmzSignedHeadersKey is the query parameter key for signed headers.
	AmzSignedHeadersKey = "X-Amz-SignedHeaders"

	// AmzSignatureKey is the query parameter key for the signature.
	AmzSignatureKey = "X-Amz-Signature"

	// AmzSecurityTokenKey carries the session token. It is appended after
	// the signature and is not part of the signed query.
	AmzSecurityTokenKey = "X-Amz-Security-Token"

	// SignedHeaders is the only signed header list a handshake uses.
	SignedHeaders = "host"

	// TimeFormat is the time format for X-Amz-Date.
	// Format: YYYYMMDDTHHMMSSZ
	TimeFormat = "20060102T150405Z"

	// ShortTimeFormat is the shortened time format for credential scope.
	// Format: YYYYMMDD
	ShortTimeFormat = "20060102"
)

// Broker connection defaults.
const (
	// DefaultService is the broker service name used in the credential scope.
	DefaultService = "iotdevicegateway"

	// DefaultPath is the broker websocket endpoint path.
	DefaultPath = "/mqtt"

	// HandshakeMethod is the HTTP method of a websocket upgrade.
	HandshakeMethod = "GET"

	// MQTTSubprotocol is the websocket subprotocol offered during the upgrade.
	MQTTSubprotocol = "mqttv3.1"

	// SchemeWSS is the scheme of every URL produced by this package.
	SchemeWSS = "wss"
)

// Protocol selects how the websocket URL is produced.
type Protocol string

const (
	// ProtocolWSS signs the URL with SigV4. An empty protocol means ProtocolWSS.
	ProtocolWSS Protocol = "wss"

	// ProtocolWSSCustomAuth leaves the URL unsigned; the broker authorizes
	// the connection through a custom authorizer.
	ProtocolWSSCustomAuth Protocol = "wss-custom-auth"
)
