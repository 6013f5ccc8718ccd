package database

import "studyhall/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// The in-memory rate windows are deliberately absent: they are never persisted.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Topic{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Report{},
		&models.SavedPost{},
	}
}
