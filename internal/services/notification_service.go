package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"newsroom_backend/internal/config"
	"newsroom_backend/internal/dispatch"
	"newsroom_backend/internal/email"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

// approvalFreshnessWindow guards against replayed or stale approval
// events: fan-out only runs for approvals younger than this.
const approvalFreshnessWindow = 10 * time.Second

type NotificationService interface {
	// FanOutApproval creates one notification and one email per audience
	// member for a freshly approved article.
	FanOutApproval(ctx context.Context, event dispatch.ApprovalEvent) error

	ListNotifications(userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	MarkRead(userID string, notificationID int64) error
	MarkAllRead(userID string) error

	// NotifyEditorsOfContact alerts every editor about a contact form
	// submission.
	NotifyEditorsOfContact(ctx context.Context, message *models.ContactMessage) error

	// CleanupOld removes read notifications older than the given number
	// of days and returns how many were removed.
	CleanupOld(days int) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	articleRepo      repositories.ArticleRepository
	userRepo         repositories.UserRepository
	subscriptionSvc  SubscriptionService
	provider         email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	subscriptionSvc SubscriptionService,
	provider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		articleRepo:      articleRepo,
		userRepo:         userRepo,
		subscriptionSvc:  subscriptionSvc,
		provider:         provider,
	}
}

func (s *notificationService) FanOutApproval(ctx context.Context, event dispatch.ApprovalEvent) error {
	article, err := s.articleRepo.FindByID(event.ArticleID)
	if err != nil {
		if errors.Is(err, repositories.ErrArticleNotFound) {
			logger.CtxWarn(ctx, "approval event for missing article", "article_id", event.ArticleID)
			return nil
		}
		return err
	}

	if !article.IsApproved || article.ApprovedAt == nil {
		logger.CtxWarn(ctx, "approval event for unapproved article", "article_id", article.ID)
		return nil
	}

	if time.Since(*article.ApprovedAt) > approvalFreshnessWindow {
		logger.CtxInfo(ctx, "skipping stale approval event",
			"article_id", article.ID, "approved_at", article.ApprovedAt)
		return nil
	}

	audience, err := s.subscriptionSvc.AudienceFor(article)
	if err != nil {
		return err
	}

	var created, emailed, failed int
	for _, recipient := range audience {
		if err := s.notifyRecipient(ctx, article, recipient, &emailed); err != nil {
			// One broken recipient must not starve the rest.
			logger.CtxWithError(ctx, "failed to notify subscriber", err,
				"article_id", article.ID, "recipient_id", recipient.User.ID)
			failed++
			continue
		}
		created++
	}

	logger.CtxInfo(ctx, "notification fan-out complete",
		"article_id", article.ID,
		"audience", len(audience),
		"created", created,
		"emailed", emailed,
		"failed", failed)

	return nil
}

// notifyRecipient creates the notification row first, so that the read
// token exists before any email referencing it is sent.
func (s *notificationService) notifyRecipient(ctx context.Context, article *models.Article, recipient Recipient, emailed *int) error {
	title := fmt.Sprintf("New article from %s", recipient.SourceName)

	data, _ := json.Marshal(map[string]string{
		"article_slug": article.Slug,
		"source":       recipient.SourceName,
	})

	notification := &models.Notification{
		RecipientID:      recipient.User.ID,
		ArticleID:        &article.ID,
		Title:            title,
		Message:          article.Title,
		NotificationType: recipient.Type,
		Data:             datatypes.JSON(data),
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	if err := s.sendArticleEmail(article, recipient, notification); err != nil {
		// The in-app notification stands even when the email fails.
		logger.CtxWithError(ctx, "failed to send notification email", err,
			"notification_id", notification.ID, "recipient_id", recipient.User.ID)
		return nil
	}

	*emailed++
	return nil
}

func (s *notificationService) sendArticleEmail(article *models.Article, recipient Recipient, notification *models.Notification) error {
	baseURL := config.GetConfig().Server.BaseURL

	data := email.TemplateData{
		"Title":            notification.Title,
		"RecipientName":    recipient.User.DisplayName(),
		"SourceName":       recipient.SourceName,
		"ArticleTitle":     article.Title,
		"Summary":          article.Summary,
		"ArticleURL":       fmt.Sprintf("%s/articles/%s/", baseURL, article.Slug),
		"MarkReadURL":      fmt.Sprintf("%s/notifications/mark-read/%d/", baseURL, notification.ID),
		"TrackingPixelURL": fmt.Sprintf("%s/notifications/track-email/%s/", baseURL, notification.ReadToken),
	}

	msg := &email.Email{
		To:      []string{recipient.User.Email},
		Subject: notification.Title,
		Body:    fmt.Sprintf("%s\n\n%s\n\nRead it here: %s/articles/%s/", notification.Title, article.Title, baseURL, article.Slug),
	}

	return s.provider.SendWithTemplate(email.TemplateArticleNotification, data, msg)
}

func (s *notificationService) ListNotifications(userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	limit := query.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := max(query.Page, 1)
	offset := (page - 1) * limit

	notifications, err := s.notificationRepo.FindByRecipient(userID, query.UnreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		UnreadCount:   unread,
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.ToNotificationResponse(&notifications[i]))
	}

	return resp, nil
}

func (s *notificationService) MarkRead(userID string, notificationID int64) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if notification.RecipientID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) NotifyEditorsOfContact(ctx context.Context, message *models.ContactMessage) error {
	editors, err := s.userRepo.FindByRole(models.UserRoleEditor, 100, 0)
	if err != nil {
		return apperrors.InternalError(err)
	}

	for i := range editors {
		notification := &models.Notification{
			RecipientID:      editors[i].ID,
			Title:            "New contact message",
			Message:          fmt.Sprintf("From %s <%s>", message.Name, message.Email),
			NotificationType: models.NotificationTypeGeneral,
		}

		if err := s.notificationRepo.Create(notification); err != nil {
			logger.CtxWithError(ctx, "failed to create contact alert", err,
				"editor_id", editors[i].ID)
			continue
		}

		msg := &email.Email{
			To:      []string{editors[i].Email},
			Subject: "New contact message",
		}
		data := email.TemplateData{
			"Name":    message.Name,
			"Email":   message.Email,
			"Message": message.Message,
		}
		if err := s.provider.SendWithTemplate(email.TemplateContactAlert, data, msg); err != nil {
			logger.CtxWithError(ctx, "failed to email contact alert", err,
				"editor_id", editors[i].ID)
		}
	}

	return nil
}

func (s *notificationService) CleanupOld(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	return s.notificationRepo.DeleteReadOlderThan(cutoff)
}
