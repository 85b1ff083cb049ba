package services

import (
	"errors"
	"time"

	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

type PublisherService interface {
	CreatePublisher(editorID string, req *dto.CreatePublisherRequest) (*dto.PublisherResponse, error)
	GetPublisher(publisherID string) (*dto.PublisherResponse, error)
	ListPublishers(limit, offset int) ([]dto.PublisherResponse, int64, error)
	DeletePublisher(editorID, publisherID string) error
}

type publisherService struct {
	publisherRepo repositories.PublisherRepository
	userRepo      repositories.UserRepository
}

func NewPublisherService(publisherRepo repositories.PublisherRepository, userRepo repositories.UserRepository) PublisherService {
	return &publisherService{
		publisherRepo: publisherRepo,
		userRepo:      userRepo,
	}
}

func (s *publisherService) CreatePublisher(editorID string, req *dto.CreatePublisherRequest) (*dto.PublisherResponse, error) {
	if err := s.requireEditor(editorID); err != nil {
		return nil, err
	}

	publisher := &models.Publisher{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Logo:        req.Logo,
	}

	if req.FoundedDate != "" {
		founded, err := time.Parse("2006-01-02", req.FoundedDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("founded_date must be YYYY-MM-DD")
		}
		publisher.FoundedDate = &founded
	}

	if _, err := s.publisherRepo.FindByName(req.Name); err == nil {
		return nil, apperrors.ErrAlreadyExists(errors.New("publisher name taken"))
	}

	if err := s.publisherRepo.Create(publisher); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toPublisherResponse(publisher)
	return &resp, nil
}

func (s *publisherService) GetPublisher(publisherID string) (*dto.PublisherResponse, error) {
	publisher, err := s.publisherRepo.FindByID(publisherID)
	if err != nil {
		if errors.Is(err, repositories.ErrPublisherNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := toPublisherResponse(publisher)
	return &resp, nil
}

func (s *publisherService) ListPublishers(limit, offset int) ([]dto.PublisherResponse, int64, error) {
	if limit <= 0 {
		limit = 50
	}

	publishers, err := s.publisherRepo.FindAll(limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	total, err := s.publisherRepo.CountAll()
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	result := make([]dto.PublisherResponse, 0, len(publishers))
	for i := range publishers {
		result = append(result, toPublisherResponse(&publishers[i]))
	}

	return result, total, nil
}

func (s *publisherService) DeletePublisher(editorID, publisherID string) error {
	if err := s.requireEditor(editorID); err != nil {
		return err
	}

	if err := s.publisherRepo.Delete(publisherID); err != nil {
		if errors.Is(err, repositories.ErrPublisherNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *publisherService) requireEditor(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewUnauthorizedError("Unknown user")
	}
	if !user.IsEditor() {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}

func toPublisherResponse(p *models.Publisher) dto.PublisherResponse {
	return dto.PublisherResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
		FoundedDate: p.FoundedDate,
		Logo:        p.Logo,
	}
}
