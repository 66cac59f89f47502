// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratatrack/internal/app/system/tracking"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and builds the tracking facade.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup. The tracker does not touch the database until the first request;
// collections and indexes are created in EnsureSchema.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	// Configure MongoDB connection pool
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	tracker := tracking.New(db)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Tracker:       tracker,
		Recorder:      tracking.NewRecorder(tracker, logger.Named("tracking")),
	}, nil
}

// EnsureSchema creates the tracking collections, attaches their JSON-Schema
// validators and ensures indexes. It runs once, after ConnectDB and before
// any request is served, and is safe to repeat on every start.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("ensuring tracking collections, validators and indexes")
	if err := tracking.Initialize(ctx, deps.MongoDatabase); err != nil {
		logger.Error("failed to initialize tracking schema", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
