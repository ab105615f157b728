package database

import (
	"os"

	"salon-booking/config"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func InitializeDatabase(cfg config.DatabaseConfig) *sqlx.DB {
	dbConn := db.GetDBConnection(db.DatabaseConfig{
		DRIVER: cfg.Driver,
		DB:     cfg.Path,
	})

	if err := EnsureSchema(dbConn); err != nil {
		logger.Error("Error while creating schema", zap.Error(err))
		os.Exit(1)
	}

	// Operator migrations (created with --command create-migration) run after the base schema
	if cfg.MigrationsDir != "" {
		if err := migrations.Migrate(dbConn, cfg.MigrationsDir); err != nil {
			logger.Error("Error while running migration", zap.Error(err), zap.String("dir", cfg.MigrationsDir))
			os.Exit(1)
		}
	}

	logger.Info("Database initialized successfully", zap.String("path", cfg.Path))
	return dbConn
}
