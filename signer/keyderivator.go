package signer

// keyDerivator derives the day/region/service scoped signing key.
type keyDerivator interface {
	DeriveKey(secretAccessKey, date, region, service string) ([]byte, error)
}

// SigningKeyDeriver derives signing keys with the configured hash. It keeps
// no state between calls: every signing attempt derives its key afresh.
type SigningKeyDeriver struct {
	newHash HashFunc
}

// NewSigningKeyDeriver creates a SigningKeyDeriver. A nil newHash means DefaultHash.
func NewSigningKeyDeriver(newHash HashFunc) *SigningKeyDeriver {
	if newHash == nil {
		newHash = DefaultHash
	}
	return &SigningKeyDeriver{
		newHash: newHash,
	}
}

// DeriveKey derives a signing key from the secret for date, region and service.
func (k *SigningKeyDeriver) DeriveKey(secretAccessKey, date, region, service string) ([]byte, error) {
	return DeriveKey(k.newHash, secretAccessKey, date, region, service)
}
