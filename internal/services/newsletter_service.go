package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsroom_backend/internal/email"
	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

type NewsletterService interface {
	CreateNewsletter(authorID string, req *dto.CreateNewsletterRequest) (*dto.NewsletterResponse, error)
	ListMyNewsletters(authorID string, limit, offset int) ([]dto.NewsletterResponse, error)

	// SendNewsletter emails the issue to the author's audience and marks
	// it sent. An already sent issue cannot be sent again.
	SendNewsletter(ctx context.Context, authorID, newsletterID string) (*dto.SendNewsletterResult, error)

	DeleteNewsletter(authorID, newsletterID string) error
}

type newsletterService struct {
	newsletterRepo   repositories.NewsletterRepository
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	provider         email.Provider
}

func NewNewsletterService(
	newsletterRepo repositories.NewsletterRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	provider email.Provider,
) NewsletterService {
	return &newsletterService{
		newsletterRepo:   newsletterRepo,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		provider:         provider,
	}
}

func (s *newsletterService) CreateNewsletter(authorID string, req *dto.CreateNewsletterRequest) (*dto.NewsletterResponse, error) {
	author, err := s.requireStaff(authorID)
	if err != nil {
		return nil, err
	}

	newsletter := &models.Newsletter{
		Title:         req.Title,
		Content:       req.Content,
		AuthorID:      author.ID,
		IsIndependent: req.IsIndependent,
	}

	// Staff newsletters carry the publisher's name unless the author
	// chose to send independently.
	if !req.IsIndependent && author.PublisherID != nil {
		newsletter.PublisherID = author.PublisherID
	}

	if err := s.newsletterRepo.Create(newsletter); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toNewsletterResponse(newsletter)
	return &resp, nil
}

func (s *newsletterService) ListMyNewsletters(authorID string, limit, offset int) ([]dto.NewsletterResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	newsletters, err := s.newsletterRepo.FindByAuthor(authorID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.NewsletterResponse, 0, len(newsletters))
	for i := range newsletters {
		result = append(result, toNewsletterResponse(&newsletters[i]))
	}
	return result, nil
}

func (s *newsletterService) SendNewsletter(ctx context.Context, authorID, newsletterID string) (*dto.SendNewsletterResult, error) {
	newsletter, err := s.newsletterRepo.FindByID(newsletterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsletterNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if newsletter.AuthorID != authorID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if newsletter.SentAt != nil {
		return nil, apperrors.ErrConflict(errors.New("already sent"),
			"newsletter", "This newsletter has already been sent")
	}

	audience, sourceName, err := s.audienceFor(newsletter)
	if err != nil {
		return nil, err
	}

	result := &dto.SendNewsletterResult{}
	for i := range audience {
		if audience[i].Email == "" {
			continue
		}
		result.Recipients++
		if err := s.sendIssue(newsletter, &audience[i], sourceName); err != nil {
			logger.CtxWithError(ctx, "failed to send newsletter email", err,
				"newsletter_id", newsletter.ID, "recipient_id", audience[i].ID)
			result.Failed++
			continue
		}
		result.Emailed++
	}

	if err := s.newsletterRepo.MarkSent(newsletter.ID, time.Now()); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "newsletter sent",
		"newsletter_id", newsletter.ID,
		"recipients", result.Recipients,
		"emailed", result.Emailed,
		"failed", result.Failed)

	return result, nil
}

func (s *newsletterService) DeleteNewsletter(authorID, newsletterID string) error {
	newsletter, err := s.newsletterRepo.FindByID(newsletterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsletterNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if newsletter.AuthorID != authorID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.newsletterRepo.Delete(newsletterID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// audienceFor resolves who receives the issue: the publisher's
// subscribers for publisher issues, the author's followers otherwise.
func (s *newsletterService) audienceFor(newsletter *models.Newsletter) ([]models.User, string, error) {
	if newsletter.PublisherID != nil && !newsletter.IsIndependent {
		subscribers, err := s.subscriptionRepo.PublisherSubscribers(*newsletter.PublisherID)
		if err != nil {
			return nil, "", apperrors.InternalError(err)
		}

		sourceName := newsletter.Author.DisplayName()
		if newsletter.Publisher != nil {
			sourceName = newsletter.Publisher.Name
		}
		return subscribers, sourceName, nil
	}

	followers, err := s.subscriptionRepo.JournalistSubscribers(newsletter.AuthorID)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return followers, newsletter.Author.DisplayName(), nil
}

func (s *newsletterService) sendIssue(newsletter *models.Newsletter, recipient *models.User, sourceName string) error {
	data := email.TemplateData{
		"Title":      newsletter.Title,
		"SourceName": sourceName,
		"Content":    newsletter.Content,
	}

	msg := &email.Email{
		To:      []string{recipient.Email},
		Subject: newsletter.Title,
		Body:    fmt.Sprintf("%s\n\n%s", newsletter.Title, newsletter.Content),
	}

	return s.provider.SendWithTemplate(email.TemplateNewsletter, data, msg)
}

func (s *newsletterService) requireStaff(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsJournalist() && !user.IsEditor() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return user, nil
}

func toNewsletterResponse(n *models.Newsletter) dto.NewsletterResponse {
	return dto.NewsletterResponse{
		ID:            n.ID,
		Title:         n.Title,
		Content:       n.Content,
		AuthorID:      n.AuthorID,
		PublisherID:   n.PublisherID,
		IsIndependent: n.IsIndependent,
		SentAt:        n.SentAt,
		CreatedAt:     n.CreatedAt,
	}
}
