// Package database manages the sqlite connection and schema migrations.
package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"showroom/internal/activity"
	"showroom/internal/config"
	"showroom/internal/store"
	"showroom/internal/users"
	"showroom/internal/websites"
)

// DBManager owns the gorm connection for the application.
type DBManager struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// NewDBManager creates a database manager for the configured sqlite database.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	return &DBManager{cfg: cfg, logger: logger}
}

// Init opens the database connection and applies the sqlite pragmas.
func (dm *DBManager) Init() error {
	if err := os.MkdirAll(filepath.Dir(dm.cfg.DatabaseName), 0o755); err != nil {
		return fmt.Errorf("error creating storage directory: %w", err)
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	db, err := gorm.Open(sqlite.Open(dm.cfg.DatabaseName), gormCfg)
	if err != nil {
		return fmt.Errorf("error opening database %s: %w", dm.cfg.DatabaseName, err)
	}

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA busy_timeout = 5000")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("error accessing underlying connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(dm.cfg.GetMaxOpenConns())
	sqlDB.SetMaxIdleConns(dm.cfg.GetMaxIdleConns())
	sqlDB.SetConnMaxLifetime(time.Hour)

	dm.db = db
	return nil
}

// GetConnection returns the active gorm connection, or nil before Init.
func (dm *DBManager) GetConnection() *gorm.DB {
	return dm.db
}

// MigrateDatabase runs schema migrations for all models.
func (dm *DBManager) MigrateDatabase() error {
	db := dm.GetConnection()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&users.User{},
			&websites.Website{},
			&activity.Record{},
			&store.ReportRecord{},
		)
	})
	if err != nil {
		dm.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	dm.logger.Info("Database migration completed successfully")
	return nil
}

// Close shuts down the connection pool.
func (dm *DBManager) Close() error {
	if dm.db == nil {
		return nil
	}
	sqlDB, err := dm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
