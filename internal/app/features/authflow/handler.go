package authflow

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	uierrors "github.com/asilitravel/safarihub/internal/app/features/errors"
	"github.com/asilitravel/safarihub/internal/app/store/oauthstate"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/authz"
	"github.com/asilitravel/safarihub/internal/app/system/locale"
	"github.com/asilitravel/safarihub/internal/app/system/routing"
	"github.com/asilitravel/safarihub/internal/app/system/timeouts"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StateStore persists one-time OAuth state between the authorize redirect
// and the provider callback.
type StateStore interface {
	Save(ctx context.Context, state, destination, localeCode string, expiresAt time.Time) error
	Validate(ctx context.Context, state string) (destination, localeCode string, valid bool, err error)
}

// Exchanger covers the provider side of the OAuth round trip. The
// production implementation talks to Google; tests substitute a fake.
type Exchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*profiles.Identity, error)
}

// Handler serves the sign-in, sign-up, and OAuth callback endpoints.
type Handler struct {
	Profiles     *profiles.Store
	States       StateStore
	Exchange     Exchanger
	SessionMgr   *auth.SessionManager
	AdminDomains []string
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	exchanger Exchanger,
	adminDomains []string,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Profiles:     profiles.New(db),
		States:       oauthstate.New(db),
		Exchange:     exchanger,
		SessionMgr:   sessionMgr,
		AdminDomains: adminDomains,
		ErrLog:       errLog,
		Log:          logger,
	}
}

type signInFormData struct {
	viewdata.BaseVM
	Error       string
	Email       string
	CallbackURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/auth/signin                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignIn(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "auth_signin", signInFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:       errorMessage(query.Get(r, "error")),
		CallbackURL: query.Get(r, routing.CallbackURLParam),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /{locale}/auth/signin                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignInPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse signin form", err, "Invalid form data.", "")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	callback := strings.TrimSpace(r.FormValue(routing.CallbackURLParam))

	if email == "" || password == "" {
		h.renderSignInWithError(w, r, "Please enter your email and password.", email, callback)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByEmail(ctx, email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lookup profile", err, "A server error occurred.", "")
		return
	}
	if p == nil || p.PasswordHash == "" {
		h.renderSignInWithError(w, r, "Incorrect email or password.", email, callback)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		h.renderSignInWithError(w, r, "Incorrect email or password.", email, callback)
		return
	}

	h.completeSignIn(w, r, p, callback)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/auth/signup                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignUp(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "auth_signup", signInFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Create account", "/"),
		CallbackURL: query.Get(r, routing.CallbackURLParam),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /{locale}/auth/signup                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignUpPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse signup form", err, "Invalid form data.", "")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	name := strings.TrimSpace(r.FormValue("name"))
	password := r.FormValue("password")
	callback := strings.TrimSpace(r.FormValue(routing.CallbackURLParam))

	if email == "" || len(password) < 8 {
		h.renderSignUpWithError(w, r, "Please enter an email and a password of at least 8 characters.", email, callback)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Create(ctx, models.Profile{
		Subject:      "local:" + strings.ToLower(email),
		Email:        email,
		DisplayName:  name,
		Role:         models.RoleMember,
		PasswordHash: string(hash),
	})
	if err == profiles.ErrDuplicateEmail {
		h.renderSignUpWithError(w, r, "An account with this email already exists.", email, callback)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create profile", err, "A server error occurred.", "")
		return
	}

	h.Log.Info("profile created via signup", zap.String("profile_id", p.ID.Hex()))
	h.completeSignIn(w, r, &p, callback)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /{locale}/auth/signout                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("signout failed", zap.Error(err))
	}
	http.Redirect(w, r, "/"+viewdata.Locale(r), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// completeSignIn writes the session and redirects to the zone landing,
// honoring a validated intended destination when one was carried.
func (h *Handler) completeSignIn(w http.ResponseWriter, r *http.Request, p *models.Profile, callback string) {
	identity := sessionUserFor(p)
	zone := authz.Classify(identity, p, h.AdminDomains)

	if err := h.SessionMgr.SignIn(w, r, p); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("profile_id", p.ID.Hex()))
		h.renderSignInWithError(w, r, "Unable to create a session. Please try again.", p.Email, callback)
		return
	}

	code := locale.Code(viewdata.Locale(r))
	dest, _ := routing.ParseDestination(callback)

	h.Log.Info("signed in",
		zap.String("profile_id", p.ID.Hex()),
		zap.String("zone", zone.String()))

	http.Redirect(w, r, routing.Landing(code, zone, dest), http.StatusSeeOther)
}

func (h *Handler) renderSignInWithError(w http.ResponseWriter, r *http.Request, msg, email, callback string) {
	templates.Render(w, r, "auth_signin", signInFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:       msg,
		Email:       email,
		CallbackURL: callback,
	})
}

func (h *Handler) renderSignUpWithError(w http.ResponseWriter, r *http.Request, msg, email, callback string) {
	templates.Render(w, r, "auth_signup", signInFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Create account", "/"),
		Error:       msg,
		Email:       email,
		CallbackURL: callback,
	})
}

func sessionUserFor(p *models.Profile) *auth.SessionUser {
	return &auth.SessionUser{
		ID:      p.ID.Hex(),
		Subject: p.Subject,
		Name:    p.DisplayName,
		Email:   p.Email,
		Role:    p.Role,
	}
}

// errorMessage maps an error query parameter to display copy. Unknown
// codes show a generic line so provider errors never render raw.
func errorMessage(code string) string {
	switch code {
	case "":
		return ""
	case "access_denied":
		return "Sign-in was cancelled."
	case "invalid_state":
		return "Your sign-in link expired. Please try again."
	case "missing_code":
		return "The sign-in response was incomplete. Please try again."
	case "exchange_failed":
		return "We couldn't verify your sign-in with the provider. Please try again."
	case "session":
		return "Unable to create a session. Please try again."
	default:
		return "Sign-in failed. Please try again."
	}
}

// signInErrorPath builds the locale-correct signin URL with an error code.
func signInErrorPath(code locale.Code, errCode string) string {
	return routing.SignInPath(code) + "?error=" + url.QueryEscape(errCode)
}
