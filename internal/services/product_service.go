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

type ProductService struct {
	Repo *repositories.ProductRepository
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{Repo: repo}
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req.ItemNumber == "" || req.Name == "" {
		return nil, apperror.InvalidOrder("item number and name are required")
	}
	if req.Quantity < 0 {
		return nil, apperror.InvalidOrder("quantity cannot be negative")
	}

	product := &models.Product{
		ItemNumber:    req.ItemNumber,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		SalesPrice:    req.SalesPrice,
	}
	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}
	cache.InvalidateProductCaches(ctx)
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ProductNotFound(id)
		}
		return nil, err
	}
	if product.IsDeleted {
		return nil, apperror.ProductNotFound(id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.Repo.List(ctx)
}

// Update edits product master data. Stock levels are not editable here;
// quantities only move through orders and containers.
func (s *ProductService) Update(ctx context.Context, id int, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SalesPrice != nil {
		product.SalesPrice = *req.SalesPrice
	}

	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, err
	}
	cache.InvalidateProductCaches(ctx)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateProductCaches(ctx)
	return nil
}
