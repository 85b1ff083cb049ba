package repositories

import (
	"errors"

	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

// SubscriptionRepository manages the reader -> publisher and
// reader -> journalist subscription edges.
type SubscriptionRepository interface {
	SubscribeToPublisher(userID, publisherID string) error
	UnsubscribeFromPublisher(userID, publisherID string) error
	SubscribeToJournalist(userID, journalistID string) error
	UnsubscribeFromJournalist(userID, journalistID string) error

	IsSubscribedToPublisher(userID, publisherID string) (bool, error)
	IsSubscribedToJournalist(userID, journalistID string) (bool, error)

	SubscribedPublishers(userID string) ([]models.Publisher, error)
	SubscribedJournalists(userID string) ([]models.User, error)

	// Audience queries used by the fan-out engine.
	PublisherSubscribers(publisherID string) ([]models.User, error)
	JournalistSubscribers(journalistID string) ([]models.User, error)
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

func (r *SubscriptionRepositoryImpl) SubscribeToPublisher(userID, publisherID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	publisher := models.Publisher{BaseModel: models.BaseModel{ID: publisherID}}

	// Append upserts the join row, so repeated subscribes are no-ops.
	return r.db.Model(&user).Association("SubscribedPublishers").Append(&publisher)
}

func (r *SubscriptionRepositoryImpl) UnsubscribeFromPublisher(userID, publisherID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	publisher := models.Publisher{BaseModel: models.BaseModel{ID: publisherID}}
	return r.db.Model(&user).Association("SubscribedPublishers").Delete(&publisher)
}

func (r *SubscriptionRepositoryImpl) SubscribeToJournalist(userID, journalistID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	journalist := models.User{BaseModel: models.BaseModel{ID: journalistID}}
	return r.db.Model(&user).Association("SubscribedJournalists").Append(&journalist)
}

func (r *SubscriptionRepositoryImpl) UnsubscribeFromJournalist(userID, journalistID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	journalist := models.User{BaseModel: models.BaseModel{ID: journalistID}}
	return r.db.Model(&user).Association("SubscribedJournalists").Delete(&journalist)
}

func (r *SubscriptionRepositoryImpl) IsSubscribedToPublisher(userID, publisherID string) (bool, error) {
	var count int64
	err := r.db.Table("publisher_subscriptions").
		Where("user_id = ? AND publisher_id = ?", userID, publisherID).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionRepositoryImpl) IsSubscribedToJournalist(userID, journalistID string) (bool, error) {
	var count int64
	err := r.db.Table("journalist_subscriptions").
		Where("subscriber_id = ? AND journalist_id = ?", userID, journalistID).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionRepositoryImpl) SubscribedPublishers(userID string) ([]models.Publisher, error) {
	var user models.User
	err := r.db.Preload("SubscribedPublishers").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.SubscribedPublishers, nil
}

func (r *SubscriptionRepositoryImpl) SubscribedJournalists(userID string) ([]models.User, error) {
	var user models.User
	err := r.db.Preload("SubscribedJournalists").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.SubscribedJournalists, nil
}

func (r *SubscriptionRepositoryImpl) PublisherSubscribers(publisherID string) ([]models.User, error) {
	var publisher models.Publisher
	err := r.db.Preload("Subscribers").First(&publisher, "id = ?", publisherID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublisherNotFound
		}
		return nil, err
	}
	return publisher.Subscribers, nil
}

func (r *SubscriptionRepositoryImpl) JournalistSubscribers(journalistID string) ([]models.User, error) {
	var subscribers []models.User
	err := r.db.
		Joins("JOIN journalist_subscriptions js ON js.subscriber_id = users.id").
		Where("js.journalist_id = ?", journalistID).
		Find(&subscribers).Error
	return subscribers, err
}
