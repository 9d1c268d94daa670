package authflow_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/asilitravel/safarihub/internal/app/features/authflow"
	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	"github.com/asilitravel/safarihub/internal/app/store/oauthstate"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/asilitravel/safarihub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeExchanger struct {
	ident *profiles.Identity
	err   error
}

func (f *fakeExchanger) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*profiles.Identity, error) {
	return f.ident, f.err
}

func newTestHandler(t *testing.T, ex authflow.Exchanger) (*authflow.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	h := authflow.NewHandler(db, sessionMgr, ex, []string{"asilitravel.com"}, errLog, logger)
	return h, db
}

func saveState(t *testing.T, db *mongo.Database, state, destination, localeCode string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := oauthstate.New(db).Save(ctx, state, destination, localeCode, time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("save state: %v", err)
	}
}

func TestServeCallback_FirstSignInCreatesProfile(t *testing.T) {
	ex := &fakeExchanger{ident: &profiles.Identity{Subject: "google-123", Email: "new@user.com"}}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-1", "", "en")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-1&code=good", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/en/account/dashboard")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p, err := profiles.New(db).GetBySubject(ctx, "google-123")
	if err != nil || p == nil {
		t.Fatalf("expected profile to exist: %v", err)
	}
	if p.Role != models.RoleMember {
		t.Errorf("role: got %q, want %q", p.Role, models.RoleMember)
	}
	if p.DisplayName != "new" {
		t.Errorf("display name: got %q, want %q", p.DisplayName, "new")
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "test-session" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestServeCallback_RepeatSignInReusesProfile(t *testing.T) {
	ex := &fakeExchanger{ident: &profiles.Identity{Subject: "google-456", Email: "repeat@user.com", Name: "Repeat"}}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-a", "", "en")
	saveState(t, db, "st-b", "", "en")

	for _, state := range []string{"st-a", "st-b"} {
		req := httptest.NewRequest("GET", "/auth/callback?state="+state+"&code=good", nil)
		rec := httptest.NewRecorder()
		h.ServeCallback(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("state %s: status %d", state, rec.Code)
		}
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := profiles.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("profile count: got %d, want 1", n)
	}
}

func TestServeCallback_ProviderErrorNoProfile(t *testing.T) {
	ex := &fakeExchanger{err: errors.New("should not be called")}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-denied", "", "en")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-denied&error=access_denied", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/en/auth/signin?error=access_denied")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := profiles.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("profile count: got %d, want 0", n)
	}
}

func TestServeCallback_InvalidStateDefaultsLocale(t *testing.T) {
	ex := &fakeExchanger{ident: &profiles.Identity{Subject: "x", Email: "x@y.com"}}
	h, _ := newTestHandler(t, ex)

	req := httptest.NewRequest("GET", "/auth/callback?state=never-saved&code=good", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/en/auth/signin?error=invalid_state")
}

func TestServeCallback_MissingCode(t *testing.T) {
	ex := &fakeExchanger{}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-nocode", "", "sw")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-nocode", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/sw/auth/signin?error=missing_code")
}

func TestServeCallback_ExchangeFailure(t *testing.T) {
	ex := &fakeExchanger{err: errors.New("provider down")}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-fail", "", "en")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-fail&code=bad", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/en/auth/signin?error=exchange_failed")
}

func TestServeCallback_LocaleCarriedThroughExchange(t *testing.T) {
	ex := &fakeExchanger{ident: &profiles.Identity{Subject: "google-sw", Email: "sw@user.com"}}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-sw", "", "sw")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-sw&code=good", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/sw/account/dashboard")
}

func TestServeCallback_DestinationWins(t *testing.T) {
	ex := &fakeExchanger{ident: &profiles.Identity{Subject: "google-dest", Email: "dest@user.com"}}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-dest", "/sw/tours/serengeti-classic", "sw")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-dest&code=good", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/sw/tours/serengeti-classic")
}

func TestServeCallback_EvilDestinationFallsBack(t *testing.T) {
	ex := &fakeExchanger{ident: &profiles.Identity{Subject: "google-evil", Email: "evil@user.com"}}
	h, db := newTestHandler(t, ex)
	saveState(t, db, "st-evil", "https://evil.example/phish", "en")

	req := httptest.NewRequest("GET", "/auth/callback?state=st-evil&code=good", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	testutil.AssertRedirect(t, rec.Code, rec.Header().Get("Location"),
		http.StatusSeeOther, "/en/account/dashboard")
}

func TestServeGoogleLogin_SavesStateAndRedirects(t *testing.T) {
	ex := &fakeExchanger{}
	h, db := newTestHandler(t, ex)

	req := httptest.NewRequest("GET", "/en/auth/google?callbackUrl=%2Fen%2Fadmin%2Fdashboard", nil)
	req = testutil.WithChiURLParam(req, "locale", "en")
	rec := httptest.NewRecorder()
	h.ServeGoogleLogin(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in authorize URL")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	dest, localeCode, ok, err := oauthstate.New(db).Validate(ctx, state)
	if err != nil || !ok {
		t.Fatalf("state not saved: ok=%v err=%v", ok, err)
	}
	if dest != "/en/admin/dashboard" {
		t.Errorf("destination: got %q", dest)
	}
	if localeCode != "en" {
		t.Errorf("locale: got %q", localeCode)
	}
}
