package database

import (
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/models"
	"innkeep/utils"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database handle.
var DB *gorm.DB

// InitDB connects to PostgreSQL, tunes the pool and migrates the schema.
func InitDB() error {
	db, err := NewPostgresDB(config.AppConfig.DatabaseURL, config.AppConfig.DBMaxOpenConns, config.AppConfig.DBMaxIdleConns)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	utils.GetLogger().Info("Connected to PostgreSQL", zap.Int("maxOpenConns", config.AppConfig.DBMaxOpenConns))
	return nil
}

// NewPostgresDB opens a pooled connection.
func NewPostgresDB(dsn string, maxOpen, maxIdle int) (*gorm.DB, error) {
	level := logger.Warn
	if !config.IsProduction() {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	if maxOpen == 0 {
		maxOpen = 25
	}
	if maxIdle == 0 {
		maxIdle = 5
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
