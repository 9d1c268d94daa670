// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level, and request limits. AppConfig is everything
// specific to SafariHub: database connection details, session secrets,
// the OAuth client, and the admin allow-list.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for the provider callback registration
	BaseURL string // e.g., "https://safarihub.example" or "http://localhost:3000"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// AdminEmailDomains is the administrator email-domain allow-list,
	// used only when a profile carries no role.
	AdminEmailDomains []string

	// SuperAdminEmail is promoted to super_admin on startup when set.
	SuperAdminEmail string
}
