// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATATRACK"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_key, etc.
//   - Environment variables: STRATATRACK_MONGO_URI, STRATATRACK_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratatrack", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// API key configuration (ingest API and admin reporting endpoints)
	{Name: "api_key", Default: "", Desc: "API key for the ingest and admin APIs (leave empty to reject all API key requests)"},

	// Reporting defaults
	{Name: "default_history_limit", Default: 50, Desc: "Default limit for login history endpoints"},
	{Name: "default_activity_limit", Default: 100, Desc: "Default limit for activity endpoints"},
	{Name: "default_stats_days", Default: 30, Desc: "Default window in days for login and signup statistics"},
	{Name: "default_signup_days", Default: 7, Desc: "Default window in days for recent signups"},
	{Name: "default_failed_hours", Default: 24, Desc: "Default window in hours for failed login lookups"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STRATATRACK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		APIKey:           appValues.String("api_key"),

		// Reporting defaults
		DefaultHistoryLimit:  int64(appValues.Int("default_history_limit")),
		DefaultActivityLimit: int64(appValues.Int("default_activity_limit")),
		DefaultStatsDays:     appValues.Int("default_stats_days"),
		DefaultSignupDays:    appValues.Int("default_signup_days"),
		DefaultFailedHours:   appValues.Int("default_failed_hours"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must not be empty")
	}
	if err := validateDefaults(appCfg); err != nil {
		logger.Error("invalid reporting defaults", zap.Error(err))
		return err
	}

	if appCfg.APIKey == "" {
		// Not fatal: reads by session token still work, but nothing can be ingested.
		logger.Warn("api_key is empty; ingest and admin endpoints will reject every request")
	}
	return nil
}

func validateDefaults(appCfg AppConfig) error {
	var errs []error
	if appCfg.DefaultHistoryLimit < 1 || appCfg.DefaultHistoryLimit > 1000 {
		errs = append(errs, fmt.Errorf("default_history_limit must be between 1 and 1000, got %d", appCfg.DefaultHistoryLimit))
	}
	if appCfg.DefaultActivityLimit < 1 || appCfg.DefaultActivityLimit > 1000 {
		errs = append(errs, fmt.Errorf("default_activity_limit must be between 1 and 1000, got %d", appCfg.DefaultActivityLimit))
	}
	if appCfg.DefaultStatsDays < 1 {
		errs = append(errs, fmt.Errorf("default_stats_days must be at least 1, got %d", appCfg.DefaultStatsDays))
	}
	if appCfg.DefaultSignupDays < 1 {
		errs = append(errs, fmt.Errorf("default_signup_days must be at least 1, got %d", appCfg.DefaultSignupDays))
	}
	if appCfg.DefaultFailedHours < 1 {
		errs = append(errs, fmt.Errorf("default_failed_hours must be at least 1, got %d", appCfg.DefaultFailedHours))
	}
	return errors.Join(errs...)
}
