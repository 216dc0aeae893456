package database

import (
	"fmt"

	"github.com/reipand/TripGo-sub000/internal/promotions"

	"gorm.io/gorm"
)

// Migrate runs the schema migrations for all persisted models. Only the
// promotions catalog lives in Postgres; booking sessions are Redis snapshots.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	if err := db.AutoMigrate(
		&promotions.Promotion{},
		&promotions.PromoUsage{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	return nil
}
