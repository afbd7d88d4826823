package db

import (
	"errors"
	"fmt"
	"log"

	"github.com/diewo77/go-gestion/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Company{},
		&models.Contact{},
		&models.Product{},
		&models.Bon{},
		&models.BonItem{},
		&models.Payment{},
		&models.ClientRemise{},
		&models.ItemRemise{},
		&models.AccessSchedule{},
		&models.AuditLog{},
	}
}

// AutoMigrate creates or updates the schema from the models.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"users", "contacts", "payments"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// RunSQLMigrations applies ./migrations with golang-migrate. databaseURL must be URL form.
func RunSQLMigrations(databaseURL, dir string) error {
	if dir == "" {
		dir = "migrations"
	}
	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	log.Println("[DB] SQL migrations applied")
	return nil
}

// Migrate runs SQL migrations when useSQL is set, AutoMigrate otherwise.
func Migrate(db *gorm.DB, useSQL bool, databaseURL string) error {
	if useSQL {
		return RunSQLMigrations(databaseURL, "")
	}
	return AutoMigrate(db)
}
