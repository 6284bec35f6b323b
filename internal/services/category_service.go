package services

import (
	"context"

	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
)

type CategoryService struct {
	Repo *repositories.CategoryRepository
}

func NewCategoryService(repo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{Repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, apperror.InvalidOrder("category name is required")
	}
	category := &models.Category{Name: req.Name}
	if err := s.Repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.Repo.List(ctx)
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
