package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-cdms-inventory/internal/config"
)

// Connect opens the configured database and applies the pool limits.
func Connect(cfg *config.Config, l *logrus.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{
		Logger:         newGormLogger(cfg, l),
		TranslateError: true,
	}

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err = OpenSQLite(cfg.Database.SQLitePath, gormCfg)
	default:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.Database.PostgresDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for transaction-mode poolers
		}), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}

	// Small fixed pool; callers queue when it is exhausted.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	l.WithField("driver", cfg.Database.Driver).Info("Database connection established")
	return db, nil
}

func newGormLogger(cfg *config.Config, l *logrus.Logger) logger.Interface {
	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}
	return logger.New(
		log.New(l.Writer(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Ping reports whether the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
