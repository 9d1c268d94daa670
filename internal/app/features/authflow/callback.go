package authflow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/asilitravel/safarihub/internal/app/system/authz"
	"github.com/asilitravel/safarihub/internal/app/system/locale"
	"github.com/asilitravel/safarihub/internal/app/system/routing"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// stateTTL bounds how long an authorize round trip may take.
const stateTTL = 10 * time.Minute

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/auth/google                                                   |
| Starts the provider flow: mint a one-time state carrying the intended       |
| destination and locale, then redirect to the consent screen.                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGoogleLogin(w http.ResponseWriter, r *http.Request) {
	code := locale.Code(viewdata.Locale(r))

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate OAuth state", zap.Error(err))
		http.Redirect(w, r, signInErrorPath(code, "session"), http.StatusSeeOther)
		return
	}

	// Only a validated relative destination survives the round trip.
	destination := ""
	if dest, ok := routing.ParseDestination(r.URL.Query().Get(routing.CallbackURLParam)); ok {
		destination = dest.String()
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(stateTTL)
	if err := h.States.Save(ctx, state, destination, string(code), expiresAt); err != nil {
		h.Log.Error("save OAuth state", zap.Error(err))
		http.Redirect(w, r, signInErrorPath(code, "session"), http.StatusSeeOther)
		return
	}

	authURL := h.Exchange.AuthCodeURL(state)
	h.Log.Debug("starting provider sign-in",
		zap.String("destination", destination),
		zap.String("locale", string(code)))

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/callback                                                          |
| Completes the provider flow. This path is locale-exempt: the locale for     |
| the post-auth redirect is recovered from the saved state, falling back to  |
| the default when the state can't be read.                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q := r.URL.Query()

	// Recover destination and locale from the state first; every branch
	// after this needs the locale for its redirect, including errors.
	destination, localeCode, stateValid := "", "", false
	if state := q.Get("state"); state != "" {
		var err error
		destination, localeCode, stateValid, err = h.States.Validate(ctx, state)
		if err != nil {
			h.Log.Error("validate OAuth state", zap.Error(err))
		}
	}
	code := locale.Default
	if locale.IsSupported(localeCode) {
		code = locale.Code(localeCode)
	}

	// Provider-reported errors (user cancelled, consent denied) surface on
	// the signin page; no profile is created or fetched.
	if errParam := q.Get("error"); errParam != "" {
		h.Log.Warn("provider returned error",
			zap.String("error", errParam),
			zap.String("description", q.Get("error_description")))
		http.Redirect(w, r, signInErrorPath(code, errParam), http.StatusSeeOther)
		return
	}

	if !stateValid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, signInErrorPath(code, "invalid_state"), http.StatusSeeOther)
		return
	}

	authCode := q.Get("code")
	if authCode == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, signInErrorPath(code, "missing_code"), http.StatusSeeOther)
		return
	}

	ident, err := h.Exchange.Exchange(r.Context(), authCode)
	if err != nil {
		h.Log.Error("code exchange failed", zap.Error(err))
		http.Redirect(w, r, signInErrorPath(code, "exchange_failed"), http.StatusSeeOther)
		return
	}

	// First sign-in creates the profile; repeats return the existing one.
	p, err := h.Profiles.EnsureFromIdentity(ctx, *ident)
	if err != nil {
		h.Log.Error("ensure profile", zap.Error(err), zap.String("subject", ident.Subject))
		http.Redirect(w, r, signInErrorPath(code, "session"), http.StatusSeeOther)
		return
	}

	zone := authz.Classify(sessionUserFor(p), p, h.AdminDomains)

	if err := h.SessionMgr.SignIn(w, r, p); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("profile_id", p.ID.Hex()))
		http.Redirect(w, r, signInErrorPath(code, "session"), http.StatusSeeOther)
		return
	}

	dest, _ := routing.ParseDestination(destination)

	h.Log.Info("signed in via provider",
		zap.String("profile_id", p.ID.Hex()),
		zap.String("zone", zone.String()),
		zap.String("locale", string(code)))

	http.Redirect(w, r, routing.Landing(code, zone, dest), http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
