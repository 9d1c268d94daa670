// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountfeature "github.com/asilitravel/safarihub/internal/app/features/account"
	admindashfeature "github.com/asilitravel/safarihub/internal/app/features/admindash"
	authflowfeature "github.com/asilitravel/safarihub/internal/app/features/authflow"
	bookingsfeature "github.com/asilitravel/safarihub/internal/app/features/bookings"
	errorsfeature "github.com/asilitravel/safarihub/internal/app/features/errors"
	healthfeature "github.com/asilitravel/safarihub/internal/app/features/health"
	homefeature "github.com/asilitravel/safarihub/internal/app/features/home"
	staysfeature "github.com/asilitravel/safarihub/internal/app/features/stays"
	toursfeature "github.com/asilitravel/safarihub/internal/app/features/tours"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/asilitravel/safarihub/internal/app/system/auth"
	"github.com/asilitravel/safarihub/internal/app/system/routing"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// The request pipeline is: session loading, then the locale-and-zone
// resolver, then the locale-scoped feature routers. By the time a
// feature handler runs, the path is canonical and the requester is
// allowed to be there.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh profile data on each request so role changes take
	// effect immediately.
	sessionMgr.SetProfileFetcher(profiles.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	resolver := &routing.Resolver{AdminDomains: appCfg.AdminEmailDomains}

	exchanger := authflowfeature.NewGoogleExchanger(appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL)
	authHandler := authflowfeature.NewHandler(deps.MongoDatabase, sessionMgr, exchanger, appCfg.AdminEmailDomains, errLog, logger)

	r := chi.NewRouter()

	r.Use(sessionMgr.LoadSessionUser)
	r.Use(routing.Middleware(resolver, logger))

	// Locale-exempt endpoints.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// The provider callback is registered with Google at a fixed path;
	// the originating locale rides in the exchange state.
	r.Get("/auth/callback", authHandler.ServeCallback)

	errorsHandler := errorsfeature.NewHandler()

	// Locale-scoped site.
	r.Route("/{locale}", func(r chi.Router) {
		homeHandler := homefeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		toursHandler := toursfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		r.Mount("/tours", toursfeature.Routes(toursHandler))

		staysHandler := staysfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		r.Mount("/stays", staysfeature.Routes(staysHandler))

		r.Mount("/auth", authflowfeature.Routes(authHandler))

		bookingsHandler := bookingsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		r.Mount("/bookings", bookingsfeature.Routes(bookingsHandler))

		accountHandler := accountfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		r.Mount("/account", accountfeature.Routes(accountHandler))

		adminHandler := admindashfeature.NewHandler(deps.MongoDatabase, appCfg.AdminEmailDomains, errLog, logger)
		r.Mount("/admin", admindashfeature.Routes(adminHandler))

		r.Get("/forbidden", errorsHandler.Forbidden)
	})

	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
