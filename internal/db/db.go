package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homefinder/internal/config"
)

// Open returns a connected GORM DB for the configured SQL driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageMySQL:
		return NewMySQL(cfg.MySQLDSN, cfg.DBLogLevel)
	case config.StoragePostgres:
		return NewPostgres(cfg.PostgresDSN, cfg.DBLogLevel)
	default:
		return nil, fmt.Errorf("storage driver %q is not backed by a database", cfg.StorageDriver)
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, configurePool(db)
}

// NewPostgres returns a connected GORM DB instance backed by pgx.
func NewPostgres(dsn, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, configurePool(db)
}

func gormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		// surfaces gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated
		TranslateError: true,
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
	}
}

func configurePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
