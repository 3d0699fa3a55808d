package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Pet{},
		&Notification{},
		&Shelter{},
		&VetProfile{},
		&QurbaniAnimal{},
		&PasswordResetToken{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	for _, table := range []string{AdoptionApplicationsTable, FosterApplicationsTable} {
		if err := db.Table(table).AutoMigrate(&Application{}); err != nil {
			return fmt.Errorf("auto-migrate %s: %w", table, err)
		}
	}
	return nil
}
