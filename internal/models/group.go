package models

import "gorm.io/datatypes"

// Group maps a role to its permission set. Permissions are stored as a
// JSON array of "resource:action" strings, e.g. "article:view".
type Group struct {
	BaseModel
	Name        string         `gorm:"uniqueIndex;not null"`
	Permissions datatypes.JSON `gorm:"type:jsonb"`
}
