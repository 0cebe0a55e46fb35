// Package awscreds feeds credentials from the AWS SDK credential chain into
// the websocket URL signer.
package awscreds

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/forestrie/go-sigv4ws/signer"
)

// DefaultTimeout bounds a single credential retrieval.
const DefaultTimeout = 10 * time.Second

// Refresher populates signer credentials from an aws.CredentialsProvider.
// Retrieved credentials are cached by the SDK until they expire, so calling
// it before every signing attempt is cheap.
type Refresher struct {
	provider aws.CredentialsProvider
	region   string
	timeout  time.Duration
	logger   glog.Logger
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithRegion sets the region written into credentials that have none.
func WithRegion(region string) Option {
	return func(r *Refresher) {
		r.region = region
	}
}

// WithTimeout bounds each retrieval.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Refresher) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger that receives retrieval failures.
func WithLogger(logger glog.Logger) Option {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// NewRefresher wraps provider in a credentials cache.
func NewRefresher(provider aws.CredentialsProvider, opts ...Option) *Refresher {
	r := &Refresher{
		timeout: DefaultTimeout,
	}
	if provider != nil {
		if cache, ok := provider.(*aws.CredentialsCache); ok {
			r.provider = cache
		} else {
			r.provider = aws.NewCredentialsCache(provider)
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.logger = glog.Ensure(r.logger)
	return r
}

// NewStaticRefresher serves fixed keys through the SDK static provider.
func NewStaticRefresher(accessKeyID, secretAccessKey, sessionToken string, opts ...Option) *Refresher {
	return NewRefresher(
		credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken),
		opts...,
	)
}

// LoadOptions selects where the SDK looks for credentials.
type LoadOptions struct {
	Profile string
	Region  string
	Timeout time.Duration
	Logger  glog.Logger
}

// Load resolves the SDK default credential chain (environment, shared
// config and credentials files, SSO, container and instance roles).
func Load(ctx context.Context, opts LoadOptions) (*Refresher, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	refresherOpts := []Option{WithRegion(cfg.Region), WithLogger(opts.Logger)}
	if opts.Timeout > 0 {
		refresherOpts = append(refresherOpts, WithTimeout(opts.Timeout))
	}
	return NewRefresher(cfg.Credentials, refresherOpts...), nil
}

// RefreshCredentials retrieves credentials and writes them into creds. On
// failure creds is left as it was and the failure is logged; the signer
// reports missing credentials if nothing usable remains.
func (r *Refresher) RefreshCredentials(ctx context.Context, creds *signer.Credentials) {
	if r == nil || creds == nil {
		return
	}
	logger := r.logger
	if ctx == nil {
		ctx = context.Background()
	}
	logger = logger.WithContext(ctx)

	if r.provider == nil {
		logger.Warn("aws credential refresh skipped: no provider configured")
		return
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	retrieved, err := r.provider.Retrieve(ctx)
	if err != nil {
		logger.Error("aws credential refresh failed", "error", err.Error())
		return
	}

	creds.AccessKeyID = retrieved.AccessKeyID
	creds.SecretAccessKey = retrieved.SecretAccessKey
	creds.SessionToken = retrieved.SessionToken
	if creds.Region == "" && r.region != "" {
		creds.Region = r.region
	}

	logger.Debug("aws credentials refreshed",
		"source", retrieved.Source,
		"expires", retrieved.CanExpire,
	)
}

var _ signer.CredentialRefresher = (*Refresher)(nil)
