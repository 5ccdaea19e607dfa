package migrate

import (
	"context"

	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on startup in dev when the
// auto-migrate feature flag is enabled. Prod deploys run cmd/migrate
// explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
	if cfg == nil || client == nil {
		return nil
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return err
	}

	if logg != nil {
		logg.Info(ctx, "running dev auto-migrations")
	}
	if err := Run(ctx, sqlDB, client.Driver(), DefaultDir, "up"); err != nil {
		return err
	}
	if logg != nil {
		logg.Info(ctx, "dev auto-migrations complete")
	}
	return nil
}
