package db

import (
	"fmt"
	"time"

	"zapdash/internal/config"
	"zapdash/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.Config) (*gorm.DB, error) {
	gormLogMode := logger.Warn
	if cfg.Environment == "development" {
		gormLogMode = logger.Info
	}

	database, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

// Migrate runs schema migrations for all models.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&models.Profile{},
		&models.Team{},
		&models.TeamMember{},
		&models.Connection{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
