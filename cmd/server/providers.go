// File: cmd/server/providers.go
package main

import (
	"log"

	"pagination_backend/internal/catalog"
	"pagination_backend/internal/config"
	"pagination_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideCatalogRepository migrates the catalog schema before handing out the repository.
func provideCatalogRepository(db *gorm.DB) (catalog.Repository, error) {
	if err := catalog.Migrate(db); err != nil {
		return nil, err
	}
	return catalog.NewGORMRepository(db), nil
}

// provideDatabase opens the database. Its cleanup also flushes the logger,
// which is the last thing to go on shutdown.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, _, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, provideCleanup(logger, db), nil
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db, logger)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
