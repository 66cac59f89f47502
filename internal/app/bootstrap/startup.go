// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratatrack/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error will abort startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Store operation timeouts (TIMEOUT_PING, TIMEOUT_WRITE, TIMEOUT_READ)
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("applied timeout overrides from environment", zap.Int("count", n))
	}
	cur := timeouts.Current()

	logger.Info("tracking service ready",
		zap.Duration("timeout_ping", cur.Ping),
		zap.Duration("timeout_write", cur.Write),
		zap.Duration("timeout_read", cur.Read),
		zap.Bool("api_key_configured", appCfg.APIKey != ""),
		zap.Int64("default_history_limit", appCfg.DefaultHistoryLimit),
		zap.Int("default_stats_days", appCfg.DefaultStatsDays),
	)
	return nil
}
