package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignIn_ThenLoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)

	profile := &models.Profile{
		ID:          primitive.NewObjectID(),
		Subject:     "google-123",
		Email:       "traveler@example.com",
		DisplayName: "Traveler",
		Role:        models.RoleMember,
	}

	// Sign in on one request, capture the cookie.
	signinReq := httptest.NewRequest("GET", "/auth/callback", nil)
	signinRec := httptest.NewRecorder()
	if err := sm.SignIn(signinRec, signinReq, profile); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// Replay the cookie through the middleware; no fetcher is installed,
	// so the session falls back to its stored id/subject.
	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/en/account/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a user in context after sign-in")
	}
	if got.ID != profile.ID.Hex() {
		t.Errorf("ID: got %q, want %q", got.ID, profile.ID.Hex())
	}
	if got.Subject != "google-123" {
		t.Errorf("Subject: got %q", got.Subject)
	}
}

type staticFetcher struct{ u *auth.SessionUser }

func (f staticFetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	return f.u
}

func TestLoadSessionUser_FetcherRefreshesRole(t *testing.T) {
	sm := newTestSessionManager(t)
	profile := &models.Profile{ID: primitive.NewObjectID(), Subject: "s", Email: "t@example.com"}

	signinRec := httptest.NewRecorder()
	if err := sm.SignIn(signinRec, httptest.NewRequest("GET", "/", nil), profile); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	sm.SetProfileFetcher(staticFetcher{u: &auth.SessionUser{
		ID:   profile.ID.Hex(),
		Role: models.RoleAdmin,
	}})

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/en", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Role != models.RoleAdmin {
		t.Fatalf("expected refreshed admin role, got %+v", got)
	}
}

func TestLoadSessionUser_FetcherMissDegradesToAnonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	profile := &models.Profile{ID: primitive.NewObjectID(), Subject: "s", Email: "t@example.com"}

	signinRec := httptest.NewRecorder()
	if err := sm.SignIn(signinRec, httptest.NewRequest("GET", "/", nil), profile); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	// A fetcher returning nil (deleted profile, transient store failure)
	// must yield an anonymous request, not an error.
	sm.SetProfileFetcher(staticFetcher{u: nil})

	found := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest("GET", "/en", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected anonymous request when fetcher returns nil")
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newTestSessionManager(t)
	profile := &models.Profile{ID: primitive.NewObjectID(), Subject: "s", Email: "t@example.com"}

	signinRec := httptest.NewRecorder()
	if err := sm.SignIn(signinRec, httptest.NewRequest("GET", "/", nil), profile); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	req := httptest.NewRequest("GET", "/en/auth/signout", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected a deletion cookie with negative MaxAge")
	}
}

func TestCurrentUser_None(t *testing.T) {
	req := httptest.NewRequest("GET", "/en", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user on a bare request")
	}
}
