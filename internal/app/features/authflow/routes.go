package authflow

import "github.com/go-chi/chi/v5"

// Routes returns the locale-scoped auth endpoints. The provider callback
// is NOT here: it lives at the fixed top-level /auth/callback path.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/signin", h.ServeSignIn)
	r.Post("/signin", h.HandleSignInPost)
	r.Get("/signup", h.ServeSignUp)
	r.Post("/signup", h.HandleSignUpPost)
	r.Get("/google", h.ServeGoogleLogin)
	r.Get("/signout", h.ServeSignOut)
	r.Post("/signout", h.ServeSignOut)
	return r
}
