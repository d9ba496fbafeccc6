package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mycardscz/mycards-server/internal/models"
)

// AutoMigrate creates or updates the schema for all persisted models.
func AutoMigrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if err := conn.AutoMigrate(
		&models.Order{},
	); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
