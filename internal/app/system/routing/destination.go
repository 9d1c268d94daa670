package routing

import (
	"net/url"
	"strings"
)

// Destination is a validated relative path a user was trying to reach
// before being diverted to authenticate. It is the only way a
// caller-supplied URL re-enters a redirect target, so construction
// rejects anything that could leave the site.
type Destination struct {
	path string
}

// ParseDestination validates raw as a same-site relative path.
// Accepted: "/en/admin/dashboard", "/en/tours?region=north".
// Rejected: absolute URLs, scheme-relative "//host/x", backslashes,
// control characters, and anything not starting with a single "/".
// Rejection is silent by contract; callers fall back to a zone landing
// path and never surface an error.
func ParseDestination(raw string) (Destination, bool) {
	if raw == "" || raw[0] != '/' {
		return Destination{}, false
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return Destination{}, false
	}
	if strings.ContainsAny(raw, "\\\r\n\x00") {
		return Destination{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || u.Scheme != "" {
		return Destination{}, false
	}
	return Destination{path: raw}, true
}

// String returns the validated relative path.
func (d Destination) String() string { return d.path }

// IsZero reports whether d holds no path.
func (d Destination) IsZero() bool { return d.path == "" }
