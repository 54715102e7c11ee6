package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table used by the application.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Preference{},
		&Actuality{},
		&Like{},
		&Notification{},
	)
}
