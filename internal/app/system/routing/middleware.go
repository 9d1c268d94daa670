package routing

import (
	"net/http"

	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/authz"
	"go.uber.org/zap"
)

// Middleware turns the resolver into a chi middleware: it gathers the
// request's path, identity, and zone, applies the decision, and only
// passes canonical, authorized requests through to handlers. Handlers
// stay thin; none of them re-implements this policy.
func Middleware(rv *Resolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := auth.CurrentUser(r)

			in := Input{
				Path:           r.URL.Path,
				RawQuery:       r.URL.RawQuery,
				AcceptLanguage: r.Header.Get("Accept-Language"),
				Identity:       identity,
				Zone:           authz.Classify(identity, nil, rv.AdminDomains),
			}

			d := rv.Resolve(in)
			switch {
			case d.NotFound:
				http.NotFound(w, r)
			case d.Redirect():
				log.Debug("redirect decision",
					zap.String("path", r.URL.Path),
					zap.String("target", d.Target),
					zap.String("reason", string(d.Reason)))
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
