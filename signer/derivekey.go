package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// HashFunc constructs the hash used for every digest and HMAC step.
// sha256.New is the only value a SigV4 verifier accepts; the seam exists so
// the hashing collaborator can be replaced.
type HashFunc func() hash.Hash

// DefaultHash is SHA-256.
var DefaultHash HashFunc = sha256.New

// DeriveKey performs the SigV4 key derivation:
//   - kDate = HMAC-SHA256("AWS4" + secret, date)
//   - kRegion = HMAC-SHA256(kDate, region)
//   - kService = HMAC-SHA256(kRegion, service)
//   - kSigning = HMAC-SHA256(kService, "aws4_request")
//
// Each round keys the HMAC with the previous output. Region may be empty.
func DeriveKey(newHash HashFunc, secret, date, region, service string) ([]byte, error) {
	kDate, err := HMACSHA256(newHash, []byte("AWS4"+secret), []byte(date))
	if err != nil {
		return nil, hashFailureError(err, "key derivation (date)")
	}

	kRegion, err := HMACSHA256(newHash, kDate, []byte(region))
	if err != nil {
		return nil, hashFailureError(err, "key derivation (region)")
	}

	kService, err := HMACSHA256(newHash, kRegion, []byte(service))
	if err != nil {
		return nil, hashFailureError(err, "key derivation (service)")
	}

	kSigning, err := HMACSHA256(newHash, kService, []byte(ScopeTerminator))
	if err != nil {
		return nil, hashFailureError(err, "key derivation (terminator)")
	}
	return kSigning, nil
}

// HMACSHA256 computes the HMAC of data with the given key. A nil newHash
// means DefaultHash.
func HMACSHA256(newHash HashFunc, key, data []byte) ([]byte, error) {
	if newHash == nil {
		newHash = DefaultHash
	}
	h := hmac.New(newHash, key)
	if _, err := h.Write(data); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// HashPayload returns the hex encoded digest of payload.
func HashPayload(newHash HashFunc, payload string) (string, error) {
	if newHash == nil {
		newHash = DefaultHash
	}
	h := newHash()
	if _, err := h.Write([]byte(payload)); err != nil {
		return "", hashFailureError(err, "payload hash")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
