package signer

import (
	"net/url"
	"strings"
)

// GetURIPath returns the escaped path of u, or "/" when it has none.
func GetURIPath(u *url.URL) string {
	if p := u.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

// normalizePath returns path with exactly one leading slash, defaulting to
// the broker endpoint path.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultPath
	}
	return "/" + strings.TrimLeft(path, "/")
}

// customAuthURL joins host and path with a single slash.
func customAuthURL(host, path string) string {
	return SchemeWSS + "://" + host + "/" + strings.TrimLeft(path, "/")
}
