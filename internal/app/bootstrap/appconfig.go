// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS); AppConfig is everything specific to BookCrew. The struct is passed
// to the lifecycle hooks, so any configuration needed during startup,
// request handling, or shutdown lives here.
type AppConfig struct {
	// BookCrew backend API
	APIBaseURL string // Backend origin (e.g., https://api.bookcrew.example)

	// Session management
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// "Keep me signed in" cookie lifetime in days
	AutoLoginDays int
}
