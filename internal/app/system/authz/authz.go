// Package authz derives the destination zone for an identity. The zone
// is computed per request, never stored.
package authz

import (
	"net/http"
	"strings"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/domain/models"
)

// Zone is the coarse destination category a request belongs to.
type Zone int

const (
	ZoneAnonymous Zone = iota
	ZoneMember
	ZoneAdmin
)

func (z Zone) String() string {
	switch z {
	case ZoneMember:
		return "member"
	case ZoneAdmin:
		return "administrator"
	}
	return "anonymous"
}

// Classify maps an identity (or none) and an optional profile to a zone.
//
// The profile role is authoritative when a profile is in hand. The admin
// email-domain allow-list is a deliberate fallback for requests where the
// profile lookup was unavailable or the role is not yet populated; it is
// a known dual source of truth and is kept as an explicit, named path
// rather than merged into the role check.
func Classify(identity *auth.SessionUser, profile *models.Profile, adminDomains []string) Zone {
	if identity == nil {
		return ZoneAnonymous
	}

	role := identity.Role
	email := identity.Email
	if profile != nil {
		role = profile.Role
		email = profile.Email
	}

	if models.IsAdminRole(role) {
		return ZoneAdmin
	}
	if role == "" && emailInDomains(email, adminDomains) {
		return ZoneAdmin
	}
	return ZoneMember
}

// ZoneFromRequest classifies the request's context user. Profile data is
// whatever LoadSessionUser placed on the SessionUser.
func ZoneFromRequest(r *http.Request, adminDomains []string) Zone {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ZoneAnonymous
	}
	return Classify(u, nil, adminDomains)
}

// IsAdmin reports whether the current request's user lands in the admin zone.
func IsAdmin(r *http.Request, adminDomains []string) bool {
	return ZoneFromRequest(r, adminDomains) == ZoneAdmin
}

func emailInDomains(email string, domains []string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	host := strings.ToLower(email[at+1:])
	for _, d := range domains {
		if host == strings.ToLower(strings.TrimSpace(d)) {
			return true
		}
	}
	return false
}
