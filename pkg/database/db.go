// Package database opens the gorm handle every repository runs on.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"

	"github.com/rewearhq/rewear/config"
)

var DB *gorm.DB

var dialectors = map[string]func(string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// Connect opens the configured database, tunes the pool and verifies the
// connection with a ping. GORM's own logger stays silent; pkg/logger
// owns all output.
func Connect() error {
	driver := config.DatabaseDriver()
	open, ok := dialectors[driver]
	if !ok {
		return fmt.Errorf("database: unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}

	db, err := gorm.Open(open(config.DatabaseDSN()), &gorm.Config{
		Logger: gormlog.Default.LogMode(gormlog.Silent),
	})
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}

	pool, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	if err := pool.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	DB = db
	return nil
}
