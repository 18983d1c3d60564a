// File: internal/platform/database/gorm.go
package database

import (
	"fmt"
	"time"

	"pagination_backend/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogLevel maps LOG_LEVEL onto GORM's levels. info and debug log every statement.
func GormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent", "fatal", "panic":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn", "warning":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Dialector picks the GORM driver for DB_DRIVER.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "", "postgres":
		dsn := cfg.DBSource
		if dsn == "" {
			dsn = cfg.PostgresDSN()
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBSource), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// NewGORM creates a new GORM database instance and returns a cleanup func
// that closes it.
func NewGORM(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, nil, err
	}

	newLogger := gormlogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  GormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  cfg.GinMode != "release",
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: cfg.DBDriver != "sqlite",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection Pool Settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err = sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database.", zap.String("driver", dialector.Name()))
	cleanup := func() {
		CloseGORMDB(db, logger)
	}
	return db, cleanup, nil
}

// CloseGORMDB closes the GORM database connection.
func CloseGORMDB(db *gorm.DB, logger *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting underlying SQL DB for closing", zap.Error(err))
		return
	}
	logger.Info("Closing database connection...")
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
		return
	}
	logger.Info("Database connection closed.")
}
