// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings like ports, TLS, logging and CORS.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key for the ingest API and the admin reporting endpoints.
	// Leave empty to reject every API key request.
	APIKey string

	// Reporting API defaults, used when a query parameter is omitted.
	DefaultHistoryLimit  int64 // my-logins and admin user logins (default: 50)
	DefaultActivityLimit int64 // my-activity and admin user activity (default: 100)
	DefaultStatsDays     int   // login-stats and signup-stats (default: 30)
	DefaultSignupDays    int   // recent-signups (default: 7)
	DefaultFailedHours   int   // failed-logins (default: 24)
}
