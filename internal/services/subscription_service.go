package services

import (
	"errors"

	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

// Recipient is one deduplicated member of an article's notification
// audience, with the attribution the notification will carry.
type Recipient struct {
	User       models.User
	Type       models.NotificationType
	SourceName string
}

type SubscriptionService interface {
	SubscribeToPublisher(userID, publisherID string) error
	UnsubscribeFromPublisher(userID, publisherID string) error
	SubscribeToJournalist(userID, journalistID string) error
	UnsubscribeFromJournalist(userID, journalistID string) error
	ListSubscriptions(userID string) (*dto.SubscriptionListResponse, error)

	// AudienceFor resolves the full, deduplicated audience for an
	// article. A reader subscribed to both the article's publisher and
	// its author appears once, attributed to the publisher.
	AudienceFor(article *models.Article) ([]Recipient, error)
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	publisherRepo    repositories.PublisherRepository
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	publisherRepo repositories.PublisherRepository,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		publisherRepo:    publisherRepo,
	}
}

func (s *subscriptionService) SubscribeToPublisher(userID, publisherID string) error {
	if err := s.requireReader(userID); err != nil {
		return err
	}

	if _, err := s.publisherRepo.FindByID(publisherID); err != nil {
		if errors.Is(err, repositories.ErrPublisherNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.subscriptionRepo.SubscribeToPublisher(userID, publisherID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) UnsubscribeFromPublisher(userID, publisherID string) error {
	// A missing publisher is not-found; a merely missing edge is a no-op.
	if _, err := s.publisherRepo.FindByID(publisherID); err != nil {
		if errors.Is(err, repositories.ErrPublisherNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.subscriptionRepo.UnsubscribeFromPublisher(userID, publisherID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) SubscribeToJournalist(userID, journalistID string) error {
	if err := s.requireReader(userID); err != nil {
		return err
	}

	journalist, err := s.userRepo.FindByID(journalistID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	// Only journalists can be followed.
	if !journalist.IsJournalist() {
		return apperrors.ErrInvalidUserRole
	}

	if err := s.subscriptionRepo.SubscribeToJournalist(userID, journalistID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) UnsubscribeFromJournalist(userID, journalistID string) error {
	if _, err := s.userRepo.FindByID(journalistID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.subscriptionRepo.UnsubscribeFromJournalist(userID, journalistID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) ListSubscriptions(userID string) (*dto.SubscriptionListResponse, error) {
	publishers, err := s.subscriptionRepo.SubscribedPublishers(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	journalists, err := s.subscriptionRepo.SubscribedJournalists(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.SubscriptionListResponse{
		Publishers:  make([]dto.PublisherResponse, 0, len(publishers)),
		Journalists: make([]dto.JournalistResponse, 0, len(journalists)),
	}

	for _, p := range publishers {
		resp.Publishers = append(resp.Publishers, dto.PublisherResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Website:     p.Website,
			FoundedDate: p.FoundedDate,
			Logo:        p.Logo,
		})
	}

	for _, j := range journalists {
		resp.Journalists = append(resp.Journalists, dto.JournalistResponse{
			ID:             j.ID,
			Username:       j.Username,
			DisplayName:    j.DisplayName(),
			Bio:            j.Bio,
			ProfilePicture: j.ProfilePicture,
		})
	}

	return resp, nil
}

func (s *subscriptionService) AudienceFor(article *models.Article) ([]Recipient, error) {
	seen := make(map[string]bool)
	var audience []Recipient

	// Publisher subscribers go first so that publisher attribution wins
	// for readers subscribed to both.
	if article.PublisherID != nil {
		publisher, err := s.publisherRepo.FindByID(*article.PublisherID)
		if err != nil && !errors.Is(err, repositories.ErrPublisherNotFound) {
			return nil, apperrors.InternalError(err)
		}

		if publisher != nil {
			subscribers, err := s.subscriptionRepo.PublisherSubscribers(publisher.ID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}

			for _, sub := range subscribers {
				// Recipients without an email address cannot be notified.
				if sub.Email == "" || seen[sub.ID] {
					continue
				}
				seen[sub.ID] = true
				audience = append(audience, Recipient{
					User:       sub,
					Type:       models.NotificationTypePublisher,
					SourceName: publisher.Name,
				})
			}
		}
	}

	author, err := s.userRepo.FindByID(article.AuthorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return audience, nil
		}
		return nil, apperrors.InternalError(err)
	}

	followers, err := s.subscriptionRepo.JournalistSubscribers(author.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, follower := range followers {
		if follower.Email == "" || seen[follower.ID] {
			continue
		}
		seen[follower.ID] = true
		audience = append(audience, Recipient{
			User:       follower,
			Type:       models.NotificationTypeJournalist,
			SourceName: author.DisplayName(),
		})
	}

	return audience, nil
}

func (s *subscriptionService) requireReader(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	// Subscriptions are a reader feature; staff accounts follow their
	// queues instead.
	if !user.IsReader() {
		return apperrors.ErrInvalidUserRole
	}
	return nil
}
