package viewdata

import (
	"net/http"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/locale"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
)

// SiteName is the display name used across templates.
const SiteName = "SafariHub"

// BaseVM contains the common fields every page template needs. Embed it
// in feature view models:
//
//	type pageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string
	Locale   string // active locale code for link prefixes

	IsLoggedIn bool
	Role       string
	UserName   string

	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM builds a populated BaseVM from the request. The locale comes
// from the chi route parameter; the resolver guarantees it is valid by
// the time a handler runs.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Locale:      Locale(r),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}

// Locale returns the request's locale code, defaulting when the route
// carries none (exempt paths).
func Locale(r *http.Request) string {
	if code := chi.URLParam(r, "locale"); locale.IsSupported(code) {
		return code
	}
	return string(locale.Default)
}
