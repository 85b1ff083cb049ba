package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

var ErrPublisherNotFound = errors.New("publisher not found")

type PublisherRepository interface {
	FindByID(id string) (*models.Publisher, error)
	FindByName(name string) (*models.Publisher, error)
	Create(publisher *models.Publisher) error
	Update(publisher *models.Publisher) error
	Delete(id string) error
	FindAll(limit, offset int) ([]models.Publisher, error)
	CountAll() (int64, error)

	AddStaffMember(publisherID, userID string) error
	RemoveStaffMember(publisherID, userID string) error
}

type PublisherRepositoryImpl struct {
	db *gorm.DB
}

func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &PublisherRepositoryImpl{db: db}
}

func (r *PublisherRepositoryImpl) FindByID(id string) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.Preload("StaffMembers").First(&publisher, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublisherNotFound
		}
		return nil, err
	}
	return &publisher, nil
}

func (r *PublisherRepositoryImpl) FindByName(name string) (*models.Publisher, error) {
	var publisher models.Publisher
	err := r.db.First(&publisher, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublisherNotFound
		}
		return nil, err
	}
	return &publisher, nil
}

func (r *PublisherRepositoryImpl) Create(publisher *models.Publisher) error {
	return r.db.Create(publisher).Error
}

func (r *PublisherRepositoryImpl) Update(publisher *models.Publisher) error {
	result := r.db.Model(publisher).Updates(map[string]interface{}{
		"name":         publisher.Name,
		"description":  publisher.Description,
		"website":      publisher.Website,
		"founded_date": publisher.FoundedDate,
		"logo":         publisher.Logo,
		"updated_at":   time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPublisherNotFound
	}
	return nil
}

func (r *PublisherRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		publisher := models.Publisher{BaseModel: models.BaseModel{ID: id}}

		if err := tx.Model(&publisher).Association("StaffMembers").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&publisher).Association("Subscribers").Clear(); err != nil {
			return err
		}

		// Staff journalists lose their assignment, not their account.
		if err := tx.Model(&models.User{}).Where("publisher_id = ?", id).
			Update("publisher_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Publisher{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPublisherNotFound
		}
		return nil
	})
}

func (r *PublisherRepositoryImpl) FindAll(limit, offset int) ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&publishers).Error
	return publishers, err
}

func (r *PublisherRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Publisher{}).Count(&count).Error
	return count, err
}

func (r *PublisherRepositoryImpl) AddStaffMember(publisherID, userID string) error {
	publisher := models.Publisher{BaseModel: models.BaseModel{ID: publisherID}}
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return r.db.Model(&publisher).Association("StaffMembers").Append(&user)
}

func (r *PublisherRepositoryImpl) RemoveStaffMember(publisherID, userID string) error {
	publisher := models.Publisher{BaseModel: models.BaseModel{ID: publisherID}}
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return r.db.Model(&publisher).Association("StaffMembers").Delete(&user)
}
