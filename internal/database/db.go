package database

import (
	"fmt"

	"partnerdesk-backend/internal/config"
	"partnerdesk-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs the schema migration. The returned
// handle owns a connection pool; callers pass it down explicitly instead of
// reading a package global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		// Sales arrive from spreadsheet exports in arbitrary table order and
		// may reference partners or products whose file was absent from a
		// given import run. Cross-table integrity is the exports' problem,
		// so no FK constraints are created.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.Product{},
		&models.Sale{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}
