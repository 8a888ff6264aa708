package db

import (
	"context"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/launcher-accounts/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the SQLite database connection and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate all models
	if err := db.AutoMigrate(&models.Account{}, &models.Config{}); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureLauncherConfig writes the default launcher configuration on first run.
func EnsureLauncherConfig(ctx context.Context, store *Store) error {
	cfg, err := store.ReadLauncherConfig(ctx)
	if err != nil {
		return err
	}
	if cfg != nil {
		return nil
	}

	if err := store.CreateLauncherConfig(ctx, models.DefaultLauncherConfig()); err != nil {
		return err
	}
	log.Printf("🔑 Created default launcher configuration")
	return nil
}
