package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/config"
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const (
	maxOpenConns    = 25
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
)

// Connect opens the Postgres pool and installs it as DB.
func Connect(cfg *config.Config) error {
	db, err := Open(postgres.Open(cfg.DSN()))
	if err != nil {
		return err
	}
	DB = db
	slog.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return nil
}

// Open opens dialector with the portal's pool limits.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	return db, nil
}

// DomainModels are the tables the portal reads and writes.
func DomainModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserRole{},
		&models.Session{},
		&models.Box{},
		&models.Serial{},
		&models.Shift{},
	}
}

// Migrate runs AutoMigrate for the domain models on db.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(DomainModels()...)
}

// MigrateShared migrates the domain models plus the Postgres-only log table.
func MigrateShared() error {
	if err := Migrate(DB); err != nil {
		return err
	}
	return DB.AutoMigrate(&models.SystemLog{})
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
