package signer

import (
	"context"
	"strings"
	"sync"
	"time"
)

// credentialsMu serializes refreshing a credential holder with taking the
// snapshot that gets signed. Holders are caller-owned and may be shared by
// concurrent signing calls.
var credentialsMu sync.Mutex

// Credentials holds the keys used to sign a websocket URL.
// AccessKeyID and SecretAccessKey are required at signing time; Region and
// SessionToken are optional.
type Credentials struct {
	// Region is the region element of the credential scope.
	Region string

	// AccessKeyID is the AWS access key ID.
	AccessKeyID string

	// SecretAccessKey is the AWS secret access key.
	SecretAccessKey string

	// SessionToken is appended to the signed URL as X-Amz-Security-Token
	// when set.
	SessionToken string

	// Provider refreshes these credentials before each signing attempt.
	Provider CredentialRefresher
}

// Validate checks that the keys needed to compute a signature are set.
func (c *Credentials) Validate() error {
	if c == nil {
		return missingCredentialsError("credentials are required")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		return missingCredentialsError("access key ID is required")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		return missingCredentialsError("secret access key is required")
	}
	return nil
}

// HasSessionToken reports whether the credentials are session credentials.
func (c Credentials) HasSessionToken() bool {
	return c.SessionToken != ""
}

// snapshot copies the key material, dropping the provider.
func (c *Credentials) snapshot() Credentials {
	return Credentials{
		Region:          c.Region,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
	}
}

// CredentialRefresher updates credentials in place. It is invoked once per
// signing attempt, before any signing work, and its outcome is not awaited:
// whatever the target holds when RefreshCredentials returns is what gets
// signed. A refresher that fetches asynchronously must finish writing
// before it returns. The signer holds a lock across the refresh and the
// snapshot that follows, so a refresher must not write into a holder after
// returning.
type CredentialRefresher interface {
	RefreshCredentials(ctx context.Context, creds *Credentials)
}

// RefreshFunc adapts a function to CredentialRefresher.
type RefreshFunc func(ctx context.Context, creds *Credentials)

// RefreshCredentials calls f.
func (f RefreshFunc) RefreshCredentials(ctx context.Context, creds *Credentials) {
	if f != nil {
		f(ctx, creds)
	}
}

// refreshCredentials invokes the configured refresher exactly once and
// returns the credentials holder it populated. WebsocketOptions.Refresher
// takes precedence over Credentials.Provider.
func refreshCredentials(ctx context.Context, opts *WebsocketOptions) (*Credentials, bool) {
	target := opts.Credentials
	if target == nil {
		target = &Credentials{}
	}

	refresher := opts.Refresher
	if refresher == nil {
		refresher = target.Provider
	}
	if refresher == nil {
		return target, false
	}

	refresher.RefreshCredentials(ctx, target)
	return target, true
}

// refreshAndResolve runs the refresher and resolves the signing context
// under credentialsMu, so the snapshot never observes a half-written holder.
func refreshAndResolve(ctx context.Context, cfg ConnectionConfig, now time.Time) (SigningContext, bool, error) {
	credentialsMu.Lock()
	defer credentialsMu.Unlock()

	creds, refreshed := refreshCredentials(ctx, cfg.options())
	sc, err := resolveSigningContext(cfg, creds, now)
	return sc, refreshed, err
}
