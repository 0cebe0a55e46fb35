package signer

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by every error this package returns.
const (
	// ErrorInvalidProtocol marks a protocol other than wss or wss-custom-auth.
	ErrorInvalidProtocol = "WSSIGN_INVALID_PROTOCOL"
	// ErrorMissingCredentials marks an empty access key ID or secret key.
	ErrorMissingCredentials = "WSSIGN_MISSING_CREDENTIALS"
	// ErrorHashFailure marks a failure of the hashing collaborator.
	ErrorHashFailure = "WSSIGN_HASH_FAILURE"
	// ErrorInvalidConfig marks a connection or signing config that cannot be used.
	ErrorInvalidConfig = "WSSIGN_INVALID_CONFIG"
)

func invalidProtocolError(protocol Protocol) error {
	return goerrors.New("signer: invalid protocol requested: "+string(protocol), goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorInvalidProtocol).
		WithMetadata(map[string]any{"protocol": string(protocol)})
}

func missingCredentialsError(message string) error {
	return goerrors.New("signer: "+message, goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorMissingCredentials)
}

func hashFailureError(source error, step string) error {
	return goerrors.Wrap(source, goerrors.CategoryInternal, "signer: hashing failed during "+step).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorHashFailure).
		WithMetadata(map[string]any{"step": step})
}

func invalidConfigError(message string) error {
	return goerrors.New("signer: "+message, goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorInvalidConfig)
}

// IsInvalidProtocol reports whether err was raised for an unsupported protocol.
func IsInvalidProtocol(err error) bool {
	return hasTextCode(err, ErrorInvalidProtocol)
}

// IsMissingCredentials reports whether err was raised for absent keys.
func IsMissingCredentials(err error) bool {
	return hasTextCode(err, ErrorMissingCredentials)
}

// IsHashFailure reports whether err came from the hashing collaborator.
func IsHashFailure(err error) bool {
	return hasTextCode(err, ErrorHashFailure)
}

// IsInvalidConfig reports whether err was raised for an unusable connection config.
func IsInvalidConfig(err error) bool {
	return hasTextCode(err, ErrorInvalidConfig)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}
