package services

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"

	"newsroom_backend/internal/auth"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

type UserService interface {
	GetUser(userID string) (*models.User, error)

	// SyncRoleState enforces everything the user's role implies: group
	// membership with the role's permission set, and clearing fields
	// that do not belong to the role (publisher assignment for
	// non-journalists, subscriptions for non-readers).
	SyncRoleState(userID string) error

	// ChangeRole updates the role of a user. Editors only.
	ChangeRole(editorID, targetID string, req *dto.UpdateRoleRequest) error

	// ListJournalists returns the public journalist directory.
	ListJournalists(limit, offset int) ([]dto.JournalistResponse, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) SyncRoleState(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	clearPublisher := !user.IsJournalist() && user.PublisherID != nil
	clearSubscriptions := !user.IsReader()

	if err := s.userRepo.SaveRoleState(user.ID, user.Role, clearPublisher, clearSubscriptions); err != nil {
		return apperrors.InternalError(err)
	}

	// Group sync is best-effort: a half-provisioned database (no group
	// rows yet) must not block user writes.
	if err := s.syncGroups(user); err != nil {
		logger.Warn("role group sync skipped", "user_id", user.ID, "error", err.Error())
	}

	return nil
}

func (s *userService) syncGroups(user *models.User) error {
	groupName := auth.GroupForRole(user.Role)

	permissions, err := json.Marshal(auth.Permissions[user.Role])
	if err != nil {
		return err
	}

	group := &models.Group{
		Name:        groupName,
		Permissions: datatypes.JSON(permissions),
	}
	if err := s.userRepo.UpsertGroup(group); err != nil {
		return err
	}

	// Membership in exactly one role group.
	return s.userRepo.ReplaceGroups(user.ID, []models.Group{*group})
}

func (s *userService) ListJournalists(limit, offset int) ([]dto.JournalistResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	journalists, err := s.userRepo.FindByRole(models.UserRoleJournalist, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.JournalistResponse, 0, len(journalists))
	for i := range journalists {
		j := &journalists[i]
		result = append(result, dto.JournalistResponse{
			ID:             j.ID,
			Username:       j.Username,
			DisplayName:    j.DisplayName(),
			Bio:            j.Bio,
			ProfilePicture: j.ProfilePicture,
			PublisherID:    j.PublisherID,
		})
	}
	return result, nil
}

func (s *userService) ChangeRole(editorID, targetID string, req *dto.UpdateRoleRequest) error {
	editor, err := s.userRepo.FindByID(editorID)
	if err != nil {
		return apperrors.NewUnauthorizedError("Unknown user")
	}
	if !editor.IsEditor() {
		return apperrors.ErrInsufficientPermissions
	}

	role := models.UserRole(req.Role)
	if err := auth.ValidateRole(role); err != nil {
		return apperrors.ErrInvalidUserRole
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	target.Role = role
	if role == models.UserRoleJournalist {
		target.PublisherID = req.PublisherID
	} else {
		target.PublisherID = nil
	}

	if err := s.userRepo.Update(target); err != nil {
		return apperrors.InternalError(err)
	}

	return s.SyncRoleState(target.ID)
}
