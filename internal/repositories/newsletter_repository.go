package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

var ErrNewsletterNotFound = errors.New("newsletter not found")

type NewsletterRepository interface {
	Create(newsletter *models.Newsletter) error
	FindByID(id string) (*models.Newsletter, error)
	FindByAuthor(authorID string, limit, offset int) ([]models.Newsletter, error)
	MarkSent(id string, sentAt time.Time) error
	Delete(id string) error
}

type NewsletterRepositoryImpl struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &NewsletterRepositoryImpl{db: db}
}

func (r *NewsletterRepositoryImpl) Create(newsletter *models.Newsletter) error {
	return r.db.Create(newsletter).Error
}

func (r *NewsletterRepositoryImpl) FindByID(id string) (*models.Newsletter, error) {
	var newsletter models.Newsletter
	err := r.db.Preload("Author").Preload("Publisher").First(&newsletter, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsletterNotFound
		}
		return nil, err
	}
	return &newsletter, nil
}

func (r *NewsletterRepositoryImpl) FindByAuthor(authorID string, limit, offset int) ([]models.Newsletter, error) {
	var newsletters []models.Newsletter
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&newsletters).Error
	return newsletters, err
}

func (r *NewsletterRepositoryImpl) MarkSent(id string, sentAt time.Time) error {
	result := r.db.Model(&models.Newsletter{}).Where("id = ?", id).
		Update("sent_at", sentAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsletterNotFound
	}
	return nil
}

func (r *NewsletterRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Newsletter{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsletterNotFound
	}
	return nil
}
