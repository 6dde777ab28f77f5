package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for all back-office entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Provider{},
		&Client{},
		&Car{},
		&WashPlan{},
		&ClientWashPlan{},
		&WashJob{},
	)
}
