// Package db opens the database, applies migrations and seeds the first account.
package db

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/diewo77/go-gestion/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var passwordPattern = regexp.MustCompile(`(password=)(\S+)`)

// Connect opens PostgreSQL, retrying while the server starts up.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] connection attempt %d/10 failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Println("[DB] Using DSN:", MaskDSN(dsn))
	return db, nil
}

// MaskDSN hides the password of a key=value or URL DSN.
func MaskDSN(dsn string) string {
	masked := passwordPattern.ReplaceAllString(dsn, `${1}***`)
	if u := urlPassword.FindStringSubmatchIndex(masked); u != nil {
		masked = masked[:u[2]] + "***" + masked[u[3]:]
	}
	return masked
}

var urlPassword = regexp.MustCompile(`://[^:/@]+:([^@]+)@`)
