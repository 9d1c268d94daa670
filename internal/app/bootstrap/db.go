// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/asilitravel/safarihub/internal/app/store/bookings"
	"github.com/asilitravel/safarihub/internal/app/store/oauthstate"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on: unique profile
// subject and email, unique booking references, and the one-time OAuth
// state collection with its TTL.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := profiles.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("ensure profile indexes", zap.Error(err))
		return err
	}
	if err := bookings.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("ensure booking indexes", zap.Error(err))
		return err
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("ensure oauth state indexes", zap.Error(err))
		return err
	}

	return nil
}
