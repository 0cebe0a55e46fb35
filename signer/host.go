package signer

import "strings"

// SanitizeHost lowercases host and drops a port that is the default for
// scheme, so the URL authority and the signed host header are the same
// string a websocket client sends as Host.
func SanitizeHost(scheme, host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	port := PortOnly(host)
	if port != "" && IsDefaultPort(scheme, port) {
		return StripPort(host)
	}
	return host
}

// StripPort removes the port from a host:port string. Brackets around an
// IPv6 literal are kept.
func StripPort(hostport string) string {
	colon := strings.LastIndexByte(hostport, ':')
	if colon == -1 {
		return hostport
	}
	if i := strings.IndexByte(hostport, ']'); i != -1 {
		if i > colon {
			return hostport
		}
		return hostport[:i+1]
	}
	if strings.Count(hostport, ":") > 1 {
		return hostport
	}
	return hostport[:colon]
}

// PortOnly returns the port part of a host:port string.
func PortOnly(hostport string) string {
	if i := strings.Index(hostport, "]:"); i != -1 {
		return hostport[i+len("]:"):]
	}
	if strings.Contains(hostport, "]") || strings.Count(hostport, ":") != 1 {
		return ""
	}
	return hostport[strings.IndexByte(hostport, ':')+len(":"):]
}

// IsDefaultPort reports whether port is the well-known port for scheme.
func IsDefaultPort(scheme, port string) bool {
	if port == "" {
		return true
	}
	switch strings.ToLower(scheme) {
	case "ws", "http":
		return port == "80"
	case SchemeWSS, "https":
		return port == "443"
	}
	return false
}
