package authz_test

import (
	"testing"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/authz"
	"github.com/asilitravel/safarihub/internal/domain/models"
)

var adminDomains = []string{"asilitravel.com"}

func TestClassify_NoIdentity(t *testing.T) {
	if z := authz.Classify(nil, nil, adminDomains); z != authz.ZoneAnonymous {
		t.Errorf("got %v, want anonymous", z)
	}
}

func TestClassify_MemberProfile(t *testing.T) {
	u := &auth.SessionUser{ID: "x", Email: "traveler@example.com"}
	p := &models.Profile{Role: models.RoleMember, Email: "traveler@example.com"}
	if z := authz.Classify(u, p, adminDomains); z != authz.ZoneMember {
		t.Errorf("got %v, want member", z)
	}
}

func TestClassify_AdminRoles(t *testing.T) {
	for _, role := range []string{models.RoleAdmin, models.RoleSuperAdmin} {
		u := &auth.SessionUser{ID: "x", Role: role}
		if z := authz.Classify(u, nil, adminDomains); z != authz.ZoneAdmin {
			t.Errorf("role %q: got %v, want admin", role, z)
		}
	}
}

func TestClassify_ProfileRoleWinsOverAllowList(t *testing.T) {
	// A populated member role is authoritative even for allow-listed domains.
	u := &auth.SessionUser{ID: "x", Email: "staff@asilitravel.com"}
	p := &models.Profile{Role: models.RoleMember, Email: "staff@asilitravel.com"}
	if z := authz.Classify(u, p, adminDomains); z != authz.ZoneMember {
		t.Errorf("got %v, want member (profile role is authoritative)", z)
	}
}

func TestClassify_AllowListFallbackWithoutProfile(t *testing.T) {
	u := &auth.SessionUser{ID: "x", Email: "staff@AsiliTravel.com"}
	if z := authz.Classify(u, nil, adminDomains); z != authz.ZoneAdmin {
		t.Errorf("got %v, want admin via allow-list fallback", z)
	}
}

func TestClassify_NoRoleUnlistedDomain(t *testing.T) {
	u := &auth.SessionUser{ID: "x", Email: "new@user.com"}
	if z := authz.Classify(u, nil, adminDomains); z != authz.ZoneMember {
		t.Errorf("got %v, want member", z)
	}
}
