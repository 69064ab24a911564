package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/uniforms-backend/pkg/config"
	"github.com/angelmondragon/uniforms-backend/pkg/db"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at API startup when running in dev
// with the auto-migrate flag on.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if cfg.DB.Driver != "" && cfg.DB.Driver != db.DriverPostgres {
		logg.Warn(ctx, fmt.Sprintf("skipping migrations for driver %s", cfg.DB.Driver))
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
