package services

import (
	"errors"

	"newsroom_backend/internal/models"
	"newsroom_backend/internal/repositories"
	"newsroom_backend/internal/services/dto"
	"newsroom_backend/pkg/apperrors"
)

type CategoryService interface {
	ListCategories() ([]dto.CategoryResponse, error)
	GetCategoryBySlug(slug string) (*dto.CategoryResponse, error)
	CreateCategory(req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(slug string) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories() ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindActive()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, toCategoryResponse(&categories[i]))
	}
	return result, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) CreateCategory(req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Order:       req.Order,
		IsActive:    true,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(slug string) error {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.categoryRepo.Delete(category.ID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func toCategoryResponse(c *models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		Order:       c.Order,
	}
}
