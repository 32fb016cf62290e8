package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kawasemi/timesheet-api/internal/config"
	"github.com/kawasemi/timesheet-api/internal/logging"
	"github.com/kawasemi/timesheet-api/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.L().Info("Database connection established")
	return nil
}

func Migrate() error {
	logging.L().Info("Running database migrations")
	err := DB.AutoMigrate(
		&models.Identity{},
		&models.Tenant{},
		&models.Organization{},
		&models.Membership{},
		&models.Session{},
		&models.TimesheetEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(DB); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	logging.L().Info("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
