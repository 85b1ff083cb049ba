package dto

import (
	"time"

	"newsroom_backend/internal/models"
)

type NotificationResponse struct {
	ID               int64                   `json:"id"`
	Title            string                  `json:"title"`
	Message          string                  `json:"message,omitempty"`
	NotificationType models.NotificationType `json:"notification_type"`
	ArticleID        *string                 `json:"article_id,omitempty"`
	IsRead           bool                    `json:"is_read"`
	EmailOpenedAt    *time.Time              `json:"email_opened_at,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size" validate:"omitempty,max=100"`
}

func ToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		Title:            n.Title,
		Message:          n.Message,
		NotificationType: n.NotificationType,
		ArticleID:        n.ArticleID,
		IsRead:           n.IsRead,
		EmailOpenedAt:    n.EmailOpenedAt,
		CreatedAt:        n.CreatedAt,
	}
}
