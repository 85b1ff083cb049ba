package auth

import (
	"errors"

	"newsroom_backend/internal/models"
)

// Permissions granted to each role. These are mirrored into the role
// group rows so that permission checks and group membership stay in
// sync (see services.UserService.SyncRoleState).
var Permissions = map[models.UserRole][]string{
	models.UserRoleReader: {
		"article:view",
		"publisher:view",
	},
	models.UserRoleJournalist: {
		"article:add",
		"article:view",
		"article:change",
		"article:delete",
		"publisher:view",
	},
	models.UserRoleEditor: {
		"article:view",
		"article:change",
		"article:delete",
		"article:approve",
		"publisher:view",
	},
}

// HasPermission reports whether the role carries the permission.
func HasPermission(role models.UserRole, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CanPerformAction checks a permission against token claims.
func CanPerformAction(claims *Claims, permission string) bool {
	return HasPermission(claims.Role, permission)
}

// IsEditor reports whether the claims belong to an editor.
func IsEditor(claims *Claims) bool {
	return claims.Role == models.UserRoleEditor
}

// IsJournalistOrHigher reports whether the claims can author content.
func IsJournalistOrHigher(claims *Claims) bool {
	return claims.Role == models.UserRoleJournalist || claims.Role == models.UserRoleEditor
}

// ValidateRole checks that the role is one of the known values.
func ValidateRole(role models.UserRole) error {
	switch role {
	case models.UserRoleReader, models.UserRoleJournalist, models.UserRoleEditor:
		return nil
	default:
		return errors.New("invalid role")
	}
}

// GroupForRole maps a role to its mirror group name.
func GroupForRole(role models.UserRole) string {
	switch role {
	case models.UserRoleJournalist:
		return models.GroupJournalists
	case models.UserRoleEditor:
		return models.GroupEditors
	default:
		return models.GroupReaders
	}
}
