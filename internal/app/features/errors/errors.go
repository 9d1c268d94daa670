// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	Locale     string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /{locale}/forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "")
}

// NotFound renders the localized "page not found" view.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	code := viewdata.Locale(r)
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_not_found", pageData{
		Title:      "Page not found",
		Locale:     code,
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    "The page you asked for doesn't exist.",
		BackURL:    "/" + code,
	})
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it falls back to the locale landing page.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	code := viewdata.Locale(r)
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = "/" + code
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", pageData{
		Title:      "Access denied",
		Locale:     code,
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	})
}
