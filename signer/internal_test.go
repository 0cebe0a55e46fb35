package signer

import (
	"encoding/hex"
	"net/url"
	"strings"
	"testing"
	"time"
)

const (
	testHost      = "a1b2c3.iot.us-east-1.amazonaws.com"
	testTimestamp = "20230105T030405Z"
	testDate      = "20230105"
	testCredValue = "AKIDEXAMPLE%2F20230105%2Fus-east-1%2Fiotdevicegateway%2Faws4_request"
)

func TestCanonicalTimeFormats(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		timestamp string
		date      string
	}{
		{
			name:      "zero padded fields",
			time:      time.Date(2023, 1, 5, 3, 4, 5, 0, time.UTC),
			timestamp: "20230105T030405Z",
			date:      "20230105",
		},
		{
			name:      "two digit fields",
			time:      time.Date(2023, 12, 31, 23, 59, 58, 0, time.UTC),
			timestamp: "20231231T235958Z",
			date:      "20231231",
		},
		{
			name:      "converted to UTC",
			time:      time.Date(2023, 1, 5, 1, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60)),
			timestamp: "20230104T230000Z",
			date:      "20230104",
		},
		{
			name:      "sub-second precision dropped",
			time:      time.Date(2023, 1, 5, 3, 4, 5, 999999999, time.UTC),
			timestamp: "20230105T030405Z",
			date:      "20230105",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := tt.time
			if got := CanonicalTime(&tm); got != tt.timestamp {
				t.Errorf("expected canonical time %s, got %s", tt.timestamp, got)
			}
			if got := CanonicalDay(tt.timestamp); got != tt.date {
				t.Errorf("expected canonical day %s, got %s", tt.date, got)
			}
		})
	}
}

func TestCanonicalTimeDefaultsToNow(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Second)
	got := CanonicalTime(nil)
	after := time.Now().UTC()

	parsed, err := time.Parse(TimeFormat, got)
	if err != nil {
		t.Fatalf("expected %s layout, got %q: %v", TimeFormat, got, err)
	}
	if parsed.Before(before) || parsed.After(after) {
		t.Errorf("expected a time between %v and %v, got %v", before, after, parsed)
	}
}

func TestBuildCredentialScope(t *testing.T) {
	scope := BuildCredentialScope(testDate, "us-east-1", DefaultService)

	expected := "20230105/us-east-1/iotdevicegateway/aws4_request"
	if scope != expected {
		t.Errorf("expected %s, got %s", expected, scope)
	}
}

func TestBuildCredentialValue(t *testing.T) {
	value := BuildCredentialValue("AKIDEXAMPLE", testDate, "us-east-1", DefaultService)
	if value != testCredValue {
		t.Errorf("expected %s, got %s", testCredValue, value)
	}

	empty := BuildCredentialValue("AKIDEXAMPLE", testDate, "", DefaultService)
	if empty != "AKIDEXAMPLE%2F20230105%2F%2Fiotdevicegateway%2Faws4_request" {
		t.Errorf("expected an empty region element, got %s", empty)
	}
}

func TestBuildPresignQueryOrder(t *testing.T) {
	query := BuildPresignQuery(testCredValue, testTimestamp)

	expected := "X-Amz-Algorithm=AWS4-HMAC-SHA256" +
		"&X-Amz-Credential=" + testCredValue +
		"&X-Amz-Date=" + testTimestamp +
		"&X-Amz-SignedHeaders=host"
	if query != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, query)
	}
}

func TestBuildCanonicalHeaders(t *testing.T) {
	got := BuildCanonicalHeaders("A1B2C3.IoT.us-east-1.AmazonAWS.com")
	expected := "host:a1b2c3.iot.us-east-1.amazonaws.com\n"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestBuildCanonicalString(t *testing.T) {
	method := "GET"
	uri := "/mqtt"
	query := "foo=bar"
	canonicalHeaders := "host:example.com\n"
	payloadHash := EmptyStringSHA256

	result := BuildCanonicalString(
		method,
		uri,
		query,
		SignedHeaders,
		canonicalHeaders,
		payloadHash,
	)

	expected := "GET\n/mqtt\nfoo=bar\nhost:example.com\n\nhost\n" + EmptyStringSHA256
	if result != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, result)
	}
}

func TestBuildCanonicalRequest(t *testing.T) {
	u := &url.URL{
		Scheme:   SchemeWSS,
		Host:     testHost,
		Path:     DefaultPath,
		RawQuery: BuildPresignQuery(testCredValue, testTimestamp),
	}

	got, err := BuildCanonicalRequest(nil, HandshakeMethod, u, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := "GET\n" +
		"/mqtt\n" +
		"X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Credential=" + testCredValue +
		"&X-Amz-Date=20230105T030405Z&X-Amz-SignedHeaders=host\n" +
		"host:a1b2c3.iot.us-east-1.amazonaws.com\n" +
		"\n" +
		"host\n" +
		EmptyStringSHA256
	if got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestBuildCanonicalRequestKeepsPort(t *testing.T) {
	u := &url.URL{
		Scheme:   SchemeWSS,
		Host:     "Broker.Example.com:8443",
		Path:     DefaultPath,
		RawQuery: BuildPresignQuery(testCredValue, testTimestamp),
	}

	got, err := BuildCanonicalRequest(nil, HandshakeMethod, u, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(got, "\nhost:broker.example.com:8443\n") {
		t.Errorf("expected lowercased host with port, got:\n%s", got)
	}
}

func TestBuildCanonicalRequestPayloadHashIndependentOfTarget(t *testing.T) {
	targets := []string{
		"wss://" + testHost + "/mqtt",
		"wss://other.example.com/mqtt",
		"wss://" + testHost + "/",
		"wss://" + testHost + "/custom/path?a=b",
	}

	for _, target := range targets {
		u, err := url.Parse(target)
		if err != nil {
			t.Fatalf("failed to parse URL: %v", err)
		}

		canonical, err := BuildCanonicalRequest(nil, HandshakeMethod, u, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(canonical, "\n")
		if last := lines[len(lines)-1]; last != EmptyStringSHA256 {
			t.Errorf("%s: expected payload hash %s, got %s", target, EmptyStringSHA256, last)
		}
	}
}

func TestHashPayload(t *testing.T) {
	hash, err := HashPayload(nil, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash != EmptyStringSHA256 {
		t.Errorf("expected %s, got %s", EmptyStringSHA256, hash)
	}

	other, err := HashPayload(DefaultHash, "test data")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(other) != 64 || other == EmptyStringSHA256 {
		t.Errorf("expected a distinct 64 character hash, got %s", other)
	}
}

func TestBuildStringToSign(t *testing.T) {
	credentialScope := "20230105/us-east-1/iotdevicegateway/aws4_request"
	canonicalRequest := "GET\n/mqtt\n\nhost:example.com\n\nhost\n" + EmptyStringSHA256

	result, err := BuildStringToSign(
		nil,
		SigningAlgorithm,
		testTimestamp,
		credentialScope,
		canonicalRequest,
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(result, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != SigningAlgorithm {
		t.Errorf("expected algorithm %s, got %s", SigningAlgorithm, lines[0])
	}
	if lines[1] != testTimestamp {
		t.Errorf("expected timestamp %s, got %s", testTimestamp, lines[1])
	}
	if lines[2] != credentialScope {
		t.Errorf("expected scope %s, got %s", credentialScope, lines[2])
	}
	expectedHash, _ := HashPayload(nil, canonicalRequest)
	if lines[3] != expectedHash {
		t.Errorf("expected canonical request hash %s, got %s", expectedHash, lines[3])
	}
}

func TestBuildSignature(t *testing.T) {
	key := []byte("test-key-32-bytes-long-for-sha256!")
	stringToSign := "test string to sign"

	signature, err := BuildSignature(nil, key, stringToSign)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Signature should be hex-encoded
	if len(signature) != 64 {
		t.Errorf("expected signature length 64, got %d", len(signature))
	}

	// Should be valid hex
	_, err = hex.DecodeString(signature)
	if err != nil {
		t.Errorf("signature should be valid hex: %v", err)
	}
}

func TestEscapeQueryValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "plain",
			value:    "token",
			expected: "token",
		},
		{
			name:     "base64 material",
			value:    "FQoG/tok+en==",
			expected: "FQoG%2Ftok%2Ben%3D%3D",
		},
		{
			name:     "space",
			value:    "a b",
			expected: "a%20b",
		},
		{
			name:     "query separators",
			value:    "a&b=c",
			expected: "a%26b%3Dc",
		},
		{
			name:     "component marks kept",
			value:    "a!b*c'(d)~",
			expected: "a!b*c'(d)~",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeQueryValue(tt.value); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGetURIPath(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "broker path",
			url:      "wss://example.com/mqtt",
			expected: "/mqtt",
		},
		{
			name:     "root path",
			url:      "wss://example.com/",
			expected: "/",
		},
		{
			name:     "no path",
			url:      "wss://example.com",
			expected: "/",
		},
		{
			name:     "path with query",
			url:      "wss://example.com/mqtt?foo=bar",
			expected: "/mqtt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}

			path := GetURIPath(u)
			if path != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, path)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":         "/mqtt",
		"  ":       "/mqtt",
		"/mqtt":    "/mqtt",
		"mqtt":     "/mqtt",
		"//mqtt":   "/mqtt",
		"/a/b":     "/a/b",
		"/custom/": "/custom/",
	}

	for in, expected := range tests {
		if got := normalizePath(in); got != expected {
			t.Errorf("normalizePath(%q): expected %s, got %s", in, expected, got)
		}
	}
}

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		scheme   string
		host     string
		expected string
	}{
		{"wss", "broker.example.com", "broker.example.com"},
		{"wss", " broker.example.com ", "broker.example.com"},
		{"wss", "Broker.example.com:443", "broker.example.com"},
		{"wss", "A1B2C3.iot.us-east-1.amazonaws.com", "a1b2c3.iot.us-east-1.amazonaws.com"},
		{"wss", "broker.example.com:8443", "broker.example.com:8443"},
		{"ws", "broker.example.com:80", "broker.example.com"},
		{"ws", "broker.example.com:443", "broker.example.com:443"},
		{"wss", "[::1]:443", "[::1]"},
		{"wss", "[::1]:8443", "[::1]:8443"},
		{"wss", "[::1]", "[::1]"},
		{"wss", "::1", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.scheme+" "+tt.host, func(t *testing.T) {
			if got := SanitizeHost(tt.scheme, tt.host); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestPortOnly(t *testing.T) {
	tests := map[string]string{
		"broker.example.com":      "",
		"broker.example.com:8443": "8443",
		"[::1]:443":               "443",
		"[::1]":                   "",
		"::1":                     "",
	}
	for in, expected := range tests {
		if got := PortOnly(in); got != expected {
			t.Errorf("PortOnly(%q): expected %q, got %q", in, expected, got)
		}
	}
}

func TestIsDefaultPort(t *testing.T) {
	if !IsDefaultPort("WSS", "443") {
		t.Error("expected 443 to be the wss default")
	}
	if !IsDefaultPort("wss", "") {
		t.Error("expected empty port to be treated as default")
	}
	if IsDefaultPort("wss", "80") {
		t.Error("expected 80 not to be the wss default")
	}
	if IsDefaultPort("mqtt", "1883") {
		t.Error("expected unknown scheme to have no default port")
	}
}
