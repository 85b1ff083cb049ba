package services

import (
	"context"

	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

type ContactService interface {
	// SubmitMessage stores the message and alerts the editors.
	SubmitMessage(ctx context.Context, req *dto.ContactRequest) error
	ListMessages(limit, offset int) ([]models.ContactMessage, int64, error)
}

type contactService struct {
	contactRepo     repositories.ContactRepository
	notificationSvc NotificationService
}

func NewContactService(contactRepo repositories.ContactRepository, notificationSvc NotificationService) ContactService {
	return &contactService{
		contactRepo:     contactRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *contactService) SubmitMessage(ctx context.Context, req *dto.ContactRequest) error {
	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}

	if err := s.contactRepo.Create(message); err != nil {
		return apperrors.InternalError(err)
	}

	return s.notificationSvc.NotifyEditorsOfContact(ctx, message)
}

func (s *contactService) ListMessages(limit, offset int) ([]models.ContactMessage, int64, error) {
	messages, err := s.contactRepo.FindAll(limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	total, err := s.contactRepo.CountAll()
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	return messages, total, nil
}
