// Package auth wraps gorilla/sessions behind a SessionManager and makes
// the signed-in profile available on the request context. It does no
// redirecting itself; enforcement lives in the routing resolver.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey  = "is_authenticated"
	userIDKey  = "user_id"
	subjectKey = "subject"
)

// SessionUser is the identity cached in the session and injected into
// r.Context(). Role mirrors the profile role at load time; it may be
// empty when the per-request profile fetch was unavailable.
type SessionUser struct {
	ID      string // profile ObjectID hex
	Subject string // identity provider's stable id
	Name    string
	Email   string
	Role    string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// ProfileFetcher loads fresh profile data for a session's user id on
// each request. Returning nil means "treat as unauthenticated"; a
// transient store failure must surface as nil, not an error.
type ProfileFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager owns the cookie store and the per-request user load.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher ProfileFetcher
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
// In production (secure=true) cookies are Secure + SameSite=Lax; local
// dev over plain http keeps them Lax without the Secure flag.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetProfileFetcher installs the per-request profile loader. Without a
// fetcher, sessions carry no role and requests degrade to member-or-less.
func (m *SessionManager) SetProfileFetcher(f ProfileFetcher) {
	m.fetcher = f
}

// Store exposes the underlying cookie store (for teardown cookies).
func (m *SessionManager) Store() *sessions.CookieStore {
	return m.store
}

// GetSession returns the request's session, decoding errors included so
// callers can distinguish a bad cookie from a fresh visitor.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// SignIn marks the session authenticated for the given profile.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, p *models.Profile) error {
	sess, err := m.GetSession(r)
	if err != nil {
		// A stale or undecodable cookie is replaced, not fatal.
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid, using fresh session",
				zap.Error(err), zap.String("user_id", p.ID.Hex()))
		} else {
			m.log.Error("session store error during sign-in, using fresh session",
				zap.Error(err), zap.String("user_id", p.ID.Hex()))
		}
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = p.ID.Hex()
	sess.Values[subjectKey] = p.Subject
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid during sign-out", zap.Error(err))
		} else {
			m.log.Error("session store error during sign-out", zap.Error(err))
		}
	}
	if opts := m.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the current user into context if signed in.
// Any failure along the way (bad cookie, fetcher miss) falls through to
// an anonymous request; session lookup never errors to the caller.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			userID := getString(sess, userIDKey)
			var u *SessionUser
			if m.fetcher != nil {
				u = m.fetcher.FetchUser(r.Context(), userID)
			}
			if u == nil && m.fetcher == nil && userID != "" {
				u = &SessionUser{ID: userID, Subject: getString(sess, subjectKey)}
			}
			if u != nil {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// WithTestUser injects a user into the request context, bypassing the
// cookie store. Test helper only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
