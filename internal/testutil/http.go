package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam returns a request whose chi route context carries the
// given URL parameter, for calling handlers directly without a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithUser returns a request carrying a signed-in session user built
// from a profile, bypassing the cookie round trip.
func WithUser(r *http.Request, p models.Profile) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:      p.ID.Hex(),
		Subject: p.Subject,
		Name:    p.DisplayName,
		Email:   p.Email,
		Role:    p.Role,
	})
}

// AssertRedirect fails the test unless the response is a redirect with
// the given status and Location.
func AssertRedirect(t *testing.T, code int, location string, wantCode int, wantLocation string) {
	t.Helper()
	if code != wantCode {
		t.Errorf("status: got %d, want %d", code, wantCode)
	}
	if location != wantLocation {
		t.Errorf("Location: got %q, want %q", location, wantLocation)
	}
}
