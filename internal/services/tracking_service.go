package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsroom_backend/internal/cache"
	"newsroom_backend/internal/config"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/pkg/apperrors"
)

// TrackingService backs the unauthenticated email read-tracking
// endpoints: the pixel and the public mark-read page. The pixel path
// never surfaces errors to the caller; the mark-read path does.
type TrackingService interface {
	// TrackOpen records an email open for the notification behind the
	// token. It never returns an error for unknown tokens or rate-limit
	// hits; the pixel must stay indistinguishable to the client.
	TrackOpen(ctx context.Context, token, clientIP string)

	// MarkReadByID marks the notification read on behalf of an email
	// link click. Unknown IDs are 404, excessive traffic is 429.
	MarkReadByID(ctx context.Context, id int64, clientIP string) (*models.Notification, error)
}

type trackingService struct {
	notificationRepo repositories.NotificationRepository
	kv               cache.KV
}

func NewTrackingService(notificationRepo repositories.NotificationRepository, kv cache.KV) TrackingService {
	return &trackingService{
		notificationRepo: notificationRepo,
		kv:               kv,
	}
}

func (s *trackingService) TrackOpen(ctx context.Context, token, clientIP string) {
	cfg := config.GetConfig()

	// Fixed per-minute window, keyed by IP and token so one client
	// hammering one pixel cannot spend the budget of others.
	rateKey := fmt.Sprintf("track:rate:%s:%s", clientIP, token)
	count, err := s.kv.Incr(ctx, rateKey, time.Minute)
	if err == nil && count > int64(cfg.Tracking.PixelRateLimit) {
		return
	}

	// Tokens already proven dead stay dead for a while.
	negKey := "track:neg:" + token
	if _, hit, err := s.kv.Get(ctx, negKey); err == nil && hit {
		return
	}

	// Opens already recorded recently need no second write.
	openedKey := "track:opened:" + token
	if _, hit, err := s.kv.Get(ctx, openedKey); err == nil && hit {
		return
	}

	notification, err := s.notificationRepo.FindByReadToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			negTTL := time.Duration(cfg.Tracking.NegativeCacheHours) * time.Hour
			_ = s.kv.Set(ctx, negKey, "1", negTTL)
			return
		}
		logger.CtxWithError(ctx, "tracking lookup failed", err)
		return
	}

	if err := s.notificationRepo.RecordEmailOpen(notification.ID, time.Now()); err != nil {
		logger.CtxWithError(ctx, "failed to record email open", err,
			"notification_id", notification.ID)
		return
	}

	openedTTL := time.Duration(cfg.Tracking.PixelCacheSeconds) * time.Second
	_ = s.kv.Set(ctx, openedKey, "1", openedTTL)

	logger.CtxDebug(ctx, "email open recorded", "notification_id", notification.ID)
}

func (s *trackingService) MarkReadByID(ctx context.Context, id int64, clientIP string) (*models.Notification, error) {
	cfg := config.GetConfig()

	rateKey := "markread:rate:" + clientIP
	count, err := s.kv.Incr(ctx, rateKey, time.Minute)
	if err == nil && count > int64(cfg.Tracking.MarkReadRateLimit) {
		return nil, apperrors.ErrRateLimited
	}

	notification, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Marking twice is fine; the link in the email may be clicked again.
	if err := s.notificationRepo.MarkAsRead(id); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return notification, nil
}
