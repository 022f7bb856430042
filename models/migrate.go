package models

import "gorm.io/gorm"

// Migrate runs auto migration for all entities
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
		&OAuthClient{},
		&NotificationLog{},
	)
}
