package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrGroupNotFound     = errors.New("group not found")
)

type UserRepository interface {
	// User operations
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateProfile(userID string, fields map[string]interface{}) error
	Delete(userID string) error
	FindByRole(role models.UserRole, limit, offset int) ([]models.User, error)
	CountByRole(role models.UserRole) (int64, error)
	CountAll() (int64, error)

	// Role state operations (see services.UserService.SyncRoleState)
	SaveRoleState(userID string, role models.UserRole, clearPublisher, clearSubscriptions bool) error
	ReplaceGroups(userID string, groups []models.Group) error

	// Group operations
	FindGroupByName(name string) (*models.Group, error)
	UpsertGroup(group *models.Group) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// User operations

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Publisher").Preload("Groups").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Publisher").First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Publisher").First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("email = ? OR username = ?", user.Email, user.Username).
		First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Model(user).Updates(map[string]interface{}{
		"email":           user.Email,
		"role":            user.Role,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"bio":             user.Bio,
		"profile_picture": user.ProfilePicture,
		"publisher_id":    user.PublisherID,
		"updated_at":      time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateProfile(userID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// Drop join rows before the user row.
		if err := tx.Model(&user).Association("SubscribedPublishers").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&user).Association("SubscribedJournalists").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&user).Association("Groups").Clear(); err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}

func (r *UserRepositoryImpl) FindByRole(role models.UserRole, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", role).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountByRole(role models.UserRole) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Role state operations

// SaveRoleState writes the role together with the field clears that the
// role demands, in one transaction.
func (r *UserRepositoryImpl) SaveRoleState(userID string, role models.UserRole, clearPublisher, clearSubscriptions bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		}
		if clearPublisher {
			updates["publisher_id"] = nil
		}

		result := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if clearSubscriptions {
			user := models.User{BaseModel: models.BaseModel{ID: userID}}
			if err := tx.Model(&user).Association("SubscribedPublishers").Clear(); err != nil {
				return err
			}
			if err := tx.Model(&user).Association("SubscribedJournalists").Clear(); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *UserRepositoryImpl) ReplaceGroups(userID string, groups []models.Group) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return r.db.Model(&user).Association("Groups").Replace(groups)
}

// Group operations

func (r *UserRepositoryImpl) FindGroupByName(name string) (*models.Group, error) {
	var group models.Group
	err := r.db.First(&group, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// UpsertGroup creates the group or refreshes its permission set.
func (r *UserRepositoryImpl) UpsertGroup(group *models.Group) error {
	var existing models.Group
	err := r.db.First(&existing, "name = ?", group.Name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(group).Error
	}
	if err != nil {
		return err
	}

	group.ID = existing.ID
	return r.db.Model(&existing).Update("permissions", group.Permissions).Error
}
