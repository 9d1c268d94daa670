// Package routing is the locale-and-identity redirect policy. The
// global middleware and the auth callback both funnel through one
// Resolve function so the decision procedure lives in exactly one
// place.
package routing

import (
	"net/url"
	"strings"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/authz"
	"github.com/asilitravel/safarihub/internal/app/system/locale"
)

// Reason tags a redirect decision for observability.
type Reason string

const (
	ReasonLocaleMissing   Reason = "locale-missing"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongZone       Reason = "wrong-zone"
	ReasonPostAuthLanding Reason = "post-auth-landing"
)

// CallbackURLParam carries the intended destination to the sign-in page
// and through the external exchange.
const CallbackURLParam = "callbackUrl"

// Decision is the resolver's output: proceed, redirect, or not-found.
type Decision struct {
	NotFound bool
	Target   string // empty means no redirect
	Reason   Reason
}

// Redirect reports whether the decision carries a redirect target.
func (d Decision) Redirect() bool { return d.Target != "" }

// Input bundles everything Resolve looks at. Identity is nil for
// anonymous requests; Zone is the classifier's output for that identity.
type Input struct {
	Path           string
	RawQuery       string
	AcceptLanguage string
	Identity       *auth.SessionUser
	Zone           authz.Zone
}

type pathClass int

const (
	classPublic pathClass = iota
	classAuthFlow
	classMember
	classAdmin
)

// exemptPrefixes are framework paths served outside the locale tree:
// static assets, the health probe, API routes, and the fixed identity
// provider callback (its URL is registered with the provider and cannot
// carry a locale; the originating locale rides in the exchange state).
var exemptPrefixes = []string{"/static/", "/api/", "/auth/callback", "/health", "/favicon.ico", "/robots.txt"}

// Resolver holds the configuration the decision procedure needs.
type Resolver struct {
	// AdminDomains is the administrator email-domain allow-list the zone
	// classifier falls back to.
	AdminDomains []string
}

// Resolve runs the decision procedure. Rules are evaluated in strict
// order; the first match wins. Locale correction always precedes auth
// decisions, so auth redirects are emitted already locale-prefixed.
func (rv *Resolver) Resolve(in Input) Decision {
	path := in.Path
	if path == "" {
		path = "/"
	}

	if isExempt(path) {
		return Decision{}
	}

	seg, rest := locale.SplitPath(path)

	// Bare root: detect the locale and send the visitor to /{locale},
	// preserving any query string.
	if seg == "" {
		target := locale.PathFor(locale.Match(in.AcceptLanguage), "/")
		return Decision{Target: withQuery(target, in.RawQuery), Reason: ReasonLocaleMissing}
	}

	if !locale.IsSupported(seg) {
		// A locale-shaped but unknown prefix degrades to the default
		// locale on the same remaining path. Anything else is malformed:
		// no silent locale injection for arbitrary unprefixed paths.
		if locale.LooksLikeCode(seg) {
			target := locale.PathFor(locale.Default, rest)
			return Decision{Target: withQuery(target, in.RawQuery), Reason: ReasonLocaleMissing}
		}
		return Decision{NotFound: true}
	}

	code := locale.Code(seg)

	switch classify(rest) {
	case classPublic:
		return Decision{}

	case classAuthFlow:
		// Already signed in and hitting sign-in/sign-up: land in the
		// identity's zone instead.
		if in.Identity != nil && isEntryAuthPath(rest) {
			return Decision{Target: LandingPath(code, in.Zone), Reason: ReasonPostAuthLanding}
		}
		return Decision{}

	case classMember:
		if in.Identity == nil {
			return rv.signInRedirect(code, path, in.RawQuery)
		}
		// Administrators may enter the member zone; they are never
		// silently downgraded.
		return Decision{}

	case classAdmin:
		if in.Identity == nil {
			return rv.signInRedirect(code, path, in.RawQuery)
		}
		if in.Zone != authz.ZoneAdmin {
			return Decision{Target: LandingPath(code, in.Zone), Reason: ReasonWrongZone}
		}
		return Decision{}
	}

	return Decision{}
}

// LandingPath is the static post-auth landing for a zone. These are the
// only two authenticated landing points; everything else is reached by
// explicit navigation once landed.
func LandingPath(code locale.Code, zone authz.Zone) string {
	if zone == authz.ZoneAdmin {
		return locale.PathFor(code, "/admin/dashboard")
	}
	return locale.PathFor(code, "/account/dashboard")
}

// SignInPath is the locale-correct sign-in page.
func SignInPath(code locale.Code) string {
	return locale.PathFor(code, "/auth/signin")
}

// Landing resolves the post-auth target: a valid intended destination
// wins; otherwise the zone's static landing path. The locale is the one
// embedded in the request that initiated the flow, never the process
// default.
func Landing(code locale.Code, zone authz.Zone, dest Destination) string {
	if !dest.IsZero() {
		return dest.String()
	}
	return LandingPath(code, zone)
}

func (rv *Resolver) signInRedirect(code locale.Code, path, rawQuery string) Decision {
	target := SignInPath(code)
	// Re-validate the current path before carrying it; an invalid one is
	// dropped and the zone landing fallback applies after auth.
	if dest, ok := ParseDestination(withQuery(path, rawQuery)); ok {
		target += "?" + CallbackURLParam + "=" + url.QueryEscape(dest.String())
	}
	return Decision{Target: target, Reason: ReasonUnauthenticated}
}

func classify(rest string) pathClass {
	switch {
	case rest == "/auth" || strings.HasPrefix(rest, "/auth/"):
		return classAuthFlow
	case rest == "/admin" || strings.HasPrefix(rest, "/admin/"):
		return classAdmin
	case rest == "/account" || strings.HasPrefix(rest, "/account/"),
		rest == "/bookings" || strings.HasPrefix(rest, "/bookings/"):
		return classMember
	}
	return classPublic
}

// isEntryAuthPath reports whether rest is a flow entry page (sign-in,
// sign-up) as opposed to sign-out, which signed-in users must reach.
func isEntryAuthPath(rest string) bool {
	return rest == "/auth" || rest == "/auth/signin" || rest == "/auth/signup" ||
		strings.HasPrefix(rest, "/auth/signin/") || strings.HasPrefix(rest, "/auth/signup/") ||
		rest == "/auth/google" || strings.HasPrefix(rest, "/auth/google/")
}

func isExempt(path string) bool {
	for _, p := range exemptPrefixes {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func withQuery(target, rawQuery string) string {
	if rawQuery == "" {
		return target
	}
	return target + "?" + rawQuery
}
