// Package database opens the gorm connection for the configured driver.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yantrashilpa.com/web/internal/config"
	"yantrashilpa.com/web/internal/observability"
)

type Options struct {
	// Quiet silences gorm's own logger (tests).
	Quiet bool
}

// Open connects with TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey on both drivers, and registers Server-Timing callbacks.
func Open(cfg config.DBConfig, opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("database: unknown driver %q", cfg.Driver)
	}

	level := logger.Warn
	if opts.Quiet {
		level = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "mysql" {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// sqlite serialises writers; one connection keeps shared in-memory
		// databases alive and avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := observability.RegisterServerTimingCallbacks(db); err != nil {
		return nil, fmt.Errorf("database: register callbacks: %w", err)
	}
	return db, nil
}

// OpenMemory opens a named shared in-memory sqlite database.
func OpenMemory(name string) (*gorm.DB, error) {
	return Open(config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on",
	}, Options{Quiet: true})
}
