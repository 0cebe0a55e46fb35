package signer

import (
	"context"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// stage names the steps of producing a websocket URL. They are reported to
// the logger and carry no other meaning.
type stage string

const (
	stageBuildingQueryParams   stage = "building_query_params"
	stageComputingSignature    stage = "computing_signature"
	stageAppendingSignature    stage = "appending_signature"
	stageAppendingSessionToken stage = "appending_session_token"
	stageDone                  stage = "done"
	stageCustomAuthBypass      stage = "custom_auth_bypass"
	stageInvalidProtocol       stage = "invalid_protocol"
)

// URLSigner produces presigned websocket URLs using AWS Signature Version 4
// in query-string form.
//
// A URLSigner holds no per-call state and is safe for concurrent use, also
// when calls share a ConnectionConfig and its credential holder. Every call
// reads the clock, refreshes credentials and derives its key afresh.
type URLSigner struct {
	logger       glog.Logger
	now          func() time.Time
	newHash      HashFunc
	keyDerivator keyDerivator
}

// Option configures a URLSigner.
type Option func(*URLSigner)

// WithLogger sets the logger that receives signing trace entries.
func WithLogger(logger glog.Logger) Option {
	return func(s *URLSigner) {
		s.logger = logger
	}
}

// WithClock sets the clock used when no signing time is supplied.
func WithClock(now func() time.Time) Option {
	return func(s *URLSigner) {
		s.now = now
	}
}

// WithHash replaces the hashing collaborator.
func WithHash(newHash HashFunc) Option {
	return func(s *URLSigner) {
		s.newHash = newHash
	}
}

// NewURLSigner creates a URLSigner.
func NewURLSigner(opts ...Option) *URLSigner {
	s := &URLSigner{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	_, logger := glog.Resolve("wssign", nil, s.logger)
	s.logger = glog.Ensure(logger)
	if s.now == nil {
		s.now = time.Now
	}
	if s.newHash == nil {
		s.newHash = DefaultHash
	}
	s.keyDerivator = NewSigningKeyDeriver(s.newHash)
	return s
}

// CreateWebsocketURL produces the websocket URL for cfg with a default URLSigner.
func CreateWebsocketURL(ctx context.Context, cfg ConnectionConfig) (string, error) {
	return NewURLSigner().CreateURL(ctx, cfg)
}

// CreateURL produces the websocket URL for cfg.
//
// For ProtocolWSS (or an unset protocol) the configured refresher is invoked
// once, the signing context is resolved and the URL is presigned. For
// ProtocolWSSCustomAuth the URL is returned unsigned. Any other protocol is
// an error and no URL is produced.
func (s *URLSigner) CreateURL(ctx context.Context, cfg ConnectionConfig) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := s.logger.WithContext(ctx)

	if err := cfg.Validate(); err != nil {
		return "", err
	}

	protocol := cfg.Protocol()
	logger.Debug("creating websocket url", "host", cfg.HostName, "protocol", string(protocol))

	switch protocol {
	case ProtocolWSS:
		sc, refreshed, err := refreshAndResolve(ctx, cfg, s.now())
		if refreshed {
			logger.Debug("credential refresher invoked", "host", cfg.HostName)
		}
		if err != nil {
			logger.Debug("signing context rejected", "host", cfg.HostName, "error", err.Error())
			return "", err
		}
		return s.presign(logger, sc)

	case ProtocolWSSCustomAuth:
		s.trace(logger, stageCustomAuthBypass, cfg.HostName)
		return customAuthURL(SanitizeHost(SchemeWSS, cfg.HostName), normalizePath(cfg.Path)), nil

	default:
		s.trace(logger, stageInvalidProtocol, cfg.HostName)
		return "", invalidProtocolError(protocol)
	}
}

// presign builds the query for sc and signs it.
func (s *URLSigner) presign(logger glog.Logger, sc SigningContext) (string, error) {
	s.trace(logger, stageBuildingQueryParams, sc.Host)

	credentialValue := BuildCredentialValue(
		sc.Credentials.AccessKeyID,
		sc.Date,
		sc.Credentials.Region,
		sc.Service,
	)

	u := &url.URL{
		Scheme:   SchemeWSS,
		Host:     sc.Host,
		Path:     sc.Path,
		RawQuery: BuildPresignQuery(credentialValue, sc.Time),
	}

	signed, err := s.signURL(logger, HandshakeMethod, u, sc, "")
	if err != nil {
		return "", err
	}
	s.trace(logger, stageDone, sc.Host)
	return signed, nil
}

// SignURL signs u, whose raw query must already carry the presign
// parameters, and returns the finished URL with the signature (and session
// token, if any) appended.
func (s *URLSigner) SignURL(method string, u *url.URL, sc SigningContext, payload string) (string, error) {
	if u == nil {
		return "", invalidConfigError("url is required")
	}
	if err := sc.Credentials.Validate(); err != nil {
		return "", err
	}
	return s.signURL(s.logger, method, u, sc, payload)
}

func (s *URLSigner) signURL(logger glog.Logger, method string, u *url.URL, sc SigningContext, payload string) (string, error) {
	s.trace(logger, stageComputingSignature, sc.Host)

	canonicalRequest, err := BuildCanonicalRequest(s.newHash, method, u, payload)
	if err != nil {
		return "", err
	}

	credentialScope := BuildCredentialScope(sc.Date, sc.Credentials.Region, sc.Service)

	strToSign, err := BuildStringToSign(
		s.newHash,
		SigningAlgorithm,
		sc.Time,
		credentialScope,
		canonicalRequest,
	)
	if err != nil {
		return "", err
	}

	key, err := s.keyDerivator.DeriveKey(
		sc.Credentials.SecretAccessKey,
		sc.Date,
		sc.Credentials.Region,
		sc.Service,
	)
	if err != nil {
		return "", err
	}

	signature, err := BuildSignature(s.newHash, key, strToSign)
	if err != nil {
		return "", err
	}

	s.trace(logger, stageAppendingSignature, sc.Host)

	var rawQuery strings.Builder
	rawQuery.WriteString(strings.TrimPrefix(u.RawQuery, "?"))
	rawQuery.WriteString("&")
	rawQuery.WriteString(AmzSignatureKey)
	rawQuery.WriteString("=")
	rawQuery.WriteString(signature)

	if sc.Credentials.HasSessionToken() {
		s.trace(logger, stageAppendingSessionToken, sc.Host)
		rawQuery.WriteString("&")
		rawQuery.WriteString(AmzSecurityTokenKey)
		rawQuery.WriteString("=")
		rawQuery.WriteString(EscapeQueryValue(sc.Credentials.SessionToken))
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = SchemeWSS
	}
	return scheme + "://" + u.Host + GetURIPath(u) + "?" + rawQuery.String(), nil
}

func (s *URLSigner) trace(logger glog.Logger, st stage, host string) {
	logger.Debug("websocket url signing", "stage", string(st), "host", host)
}
