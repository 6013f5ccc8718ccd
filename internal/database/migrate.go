package database

import (
	"gorm.io/gorm"
)

// Migrate applies the schema for every registered model, including the
// composite unique indexes that back the engine's duplicate guards.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}
