// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/asilitravel/safarihub/internal/app/resources"
	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"github.com/asilitravel/safarihub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.SuperAdminEmail != "" {
		store := profiles.New(deps.MongoDatabase)
		if err := store.PromoteByEmail(ctx, appCfg.SuperAdminEmail, models.RoleSuperAdmin); err != nil {
			logger.Warn("superadmin promotion failed", zap.Error(err))
		} else {
			logger.Info("superadmin promotion applied", zap.String("email", appCfg.SuperAdminEmail))
		}
	}

	return nil
}
