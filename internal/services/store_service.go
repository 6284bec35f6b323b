package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
)

type StoreService struct {
	Repo *repositories.StoreRepository
}

func NewStoreService(repo *repositories.StoreRepository) *StoreService {
	return &StoreService{Repo: repo}
}

func (s *StoreService) Create(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, error) {
	if req.Name == "" {
		return nil, apperror.InvalidOrder("store name is required")
	}
	store := &models.Store{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
	}
	if err := s.Repo.Create(ctx, store); err != nil {
		return nil, err
	}
	cache.InvalidateStoreCaches(ctx)
	return store, nil
}

func (s *StoreService) Get(ctx context.Context, id int) (*models.Store, error) {
	store, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.StoreNotFound(id)
		}
		return nil, err
	}
	if store.IsDeleted {
		return nil, apperror.StoreNotFound(id)
	}
	return store, nil
}

func (s *StoreService) List(ctx context.Context) ([]*models.Store, error) {
	return s.Repo.List(ctx)
}

func (s *StoreService) Update(ctx context.Context, id int, req *models.UpdateStoreRequest) (*models.Store, error) {
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		store.Name = req.Name
	}
	if req.Email != "" {
		store.Email = req.Email
	}
	if req.Phone != "" {
		store.Phone = req.Phone
	}
	if req.Address != "" {
		store.Address = req.Address
	}
	if req.City != "" {
		store.City = req.City
	}
	if req.State != "" {
		store.State = req.State
	}
	if req.Zip != "" {
		store.Zip = req.Zip
	}

	if err := s.Repo.Update(ctx, store); err != nil {
		return nil, err
	}
	cache.InvalidateStoreCaches(ctx)
	return store, nil
}

func (s *StoreService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStoreCaches(ctx)
	return nil
}
