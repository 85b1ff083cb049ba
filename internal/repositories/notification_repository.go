package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"newsroom_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id int64) (*models.Notification, error)
	FindByReadToken(token string) (*models.Notification, error)
	FindByRecipient(recipientID string, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	CountUnread(recipientID string) (int64, error)

	// MarkAsRead flips is_read. Already-read notifications are a no-op,
	// not an error.
	MarkAsRead(id int64) error
	MarkAllAsRead(recipientID string) error

	// RecordEmailOpen stamps email_opened_at on first open and marks the
	// notification read.
	RecordEmailOpen(id int64, openedAt time.Time) error

	// DeleteReadOlderThan removes read notifications created before the
	// cutoff and returns the number of rows removed.
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(id int64) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Preload("Article").First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindByReadToken(token string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "read_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindByRecipient(recipientID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification

	query := r.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	err := query.Preload("Article").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) CountUnread(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(id int64) error {
	var notification models.Notification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.IsRead {
		return nil
	}

	return r.db.Model(&notification).Update("is_read", true).Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(recipientID string) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepositoryImpl) RecordEmailOpen(id int64, openedAt time.Time) error {
	updates := map[string]interface{}{"is_read": true}

	// First open wins; repeated opens keep the original timestamp.
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND email_opened_at IS NULL", id).
		Updates(map[string]interface{}{"email_opened_at": openedAt, "is_read": true})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	return r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(updates).Error
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
