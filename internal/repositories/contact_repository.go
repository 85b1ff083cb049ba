package repositories

import (
	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

type ContactRepository interface {
	Create(message *models.ContactMessage) error
	FindAll(limit, offset int) ([]models.ContactMessage, error)
	CountAll() (int64, error)
}

type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) Create(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

func (r *ContactRepositoryImpl) FindAll(limit, offset int) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&messages).Error
	return messages, err
}

func (r *ContactRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.ContactMessage{}).Count(&count).Error
	return count, err
}
