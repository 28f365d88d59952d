package migrate

import (
	"context"
	"fmt"

	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/funnelhub/funnelhub-backend/pkg/db"
	"github.com/funnelhub/funnelhub-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date when the auto-migrate flag is on.
// Postgres runs the goose migrations (dev only); sqlite uses GORM's AutoMigrate
// because the SQL files are Postgres dialect.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "migrate.automigrate.start")
		if err := client.AutoMigrate(ctx); err != nil {
			return err
		}
		logg.Info(ctx, "migrate.automigrate.done")
		return nil
	}

	if !cfg.App.IsDev() {
		logg.Warn(ctx, "migrate.autorun.skipped_outside_dev")
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "migrate.goose.start")
	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.goose.done")
	return nil
}
