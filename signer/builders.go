package signer

import (
	"encoding/hex"
	"net/url"
	"strings"
)

// BuildCredentialScope builds the SigV4 credential scope.
// Format: date/region/service/aws4_request
func BuildCredentialScope(date, region, service string) string {
	return strings.Join([]string{
		date,
		region,
		service,
		ScopeTerminator,
	}, "/")
}

// BuildCredentialValue builds the X-Amz-Credential query value: the access
// key id followed by the credential scope, with every slash already
// percent-encoded so the value can be placed in a raw query as is.
func BuildCredentialValue(accessKeyID, date, region, service string) string {
	return strings.Join([]string{
		accessKeyID,
		date,
		region,
		service,
		ScopeTerminator,
	}, "%2F")
}

// BuildPresignQuery builds the query string that is signed. The parameter
// order is fixed and is the order the canonical request sees.
func BuildPresignQuery(credentialValue, timestamp string) string {
	var b strings.Builder
	b.WriteString(AmzAlgorithmKey)
	b.WriteByte('=')
	b.WriteString(SigningAlgorithm)
	b.WriteByte('&')
	b.WriteString(AmzCredentialKey)
	b.WriteByte('=')
	b.WriteString(credentialValue)
	b.WriteByte('&')
	b.WriteString(AmzDateKey)
	b.WriteByte('=')
	b.WriteString(timestamp)
	b.WriteByte('&')
	b.WriteString(AmzSignedHeadersKey)
	b.WriteByte('=')
	b.WriteString(SignedHeaders)
	return b.String()
}

// BuildCanonicalHeaders builds the canonical headers block. Only host is
// signed, so the block is a single lowercase line.
func BuildCanonicalHeaders(host string) string {
	return "host:" + strings.ToLower(host) + "\n"
}

// BuildCanonicalString builds the canonical request string.
// Format: METHOD\nURI\nQUERY\nHEADERS\nSIGNED_HEADERS\nPAYLOAD_HASH
func BuildCanonicalString(method, uri, query, signedHeaders, canonicalHeaders, payloadHash string) string {
	return strings.Join([]string{
		method,
		uri,
		query,
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")
}

// BuildCanonicalRequest builds the canonical request for u. The raw query
// already present on u is used verbatim: it is neither sorted nor
// re-encoded, so it must have been produced by BuildPresignQuery. The host
// header keeps any explicit port, matching what the client sends.
func BuildCanonicalRequest(newHash HashFunc, method string, u *url.URL, payload string) (string, error) {
	payloadHash, err := HashPayload(newHash, payload)
	if err != nil {
		return "", err
	}
	return BuildCanonicalString(
		method,
		GetURIPath(u),
		strings.TrimPrefix(u.RawQuery, "?"),
		SignedHeaders,
		BuildCanonicalHeaders(u.Host),
		payloadHash,
	), nil
}

// BuildStringToSign builds the string to sign.
// Format: ALGORITHM\nTIMESTAMP\nSCOPE\nHASH(CANONICAL_REQUEST)
func BuildStringToSign(newHash HashFunc, algorithm, timestamp, credentialScope, canonicalRequest string) (string, error) {
	hashStr, err := HashPayload(newHash, canonicalRequest)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		algorithm,
		timestamp,
		credentialScope,
		hashStr,
	}, "\n"), nil
}

// BuildSignature computes the hex encoded HMAC of stringToSign.
func BuildSignature(newHash HashFunc, key []byte, stringToSign string) (string, error) {
	h, err := HMACSHA256(newHash, key, []byte(stringToSign))
	if err != nil {
		return "", hashFailureError(err, "signature")
	}
	return hex.EncodeToString(h), nil
}

// componentUnescaper restores the marks encodeURIComponent leaves alone.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeQueryValue percent-encodes a query value the way encodeURIComponent
// does: spaces become %20, never '+', and !'()* are left as they are.
func EscapeQueryValue(value string) string {
	return componentUnescaper.Replace(url.QueryEscape(value))
}
