package database

import (
	"fmt"

	"github.com/Eursukkul/venue-booking/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the bookings, venues and users tables. Bookings
// reference venues and users by name only, so no foreign keys are declared.
func Migrate(db *gorm.DB) error {
	for _, model := range models.MigrateModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", model, err)
		}
	}
	return nil
}
