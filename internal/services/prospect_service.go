package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
)

type ProspectService struct {
	Prospects *repositories.ProspectRepository
	Stores    *repositories.StoreRepository
}

func NewProspectService(prospects *repositories.ProspectRepository, stores *repositories.StoreRepository) *ProspectService {
	return &ProspectService{Prospects: prospects, Stores: stores}
}

func (s *ProspectService) Create(ctx context.Context, req *models.CreateProspectRequest) (*models.Prospect, error) {
	if req.Name == "" {
		return nil, apperror.InvalidOrder("prospect name is required")
	}
	prospect := &models.Prospect{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.Prospects.Create(ctx, prospect); err != nil {
		return nil, err
	}
	return prospect, nil
}

func (s *ProspectService) Get(ctx context.Context, id int) (*models.Prospect, error) {
	prospect, err := s.Prospects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.InvalidOrder(fmt.Sprintf("prospect %d not found", id))
		}
		return nil, err
	}
	if prospect.IsDeleted {
		return nil, apperror.InvalidOrder(fmt.Sprintf("prospect %d not found", id))
	}
	return prospect, nil
}

func (s *ProspectService) List(ctx context.Context) ([]*models.Prospect, error) {
	return s.Prospects.List(ctx)
}

func (s *ProspectService) Update(ctx context.Context, id int, req *models.UpdateProspectRequest) (*models.Prospect, error) {
	prospect, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		prospect.Name = req.Name
	}
	if req.Email != "" {
		prospect.Email = req.Email
	}
	if req.Phone != "" {
		prospect.Phone = req.Phone
	}
	if req.Address != "" {
		prospect.Address = req.Address
	}
	if req.Notes != "" {
		prospect.Notes = req.Notes
	}
	if req.Status != "" {
		prospect.Status = req.Status
	}

	if err := s.Prospects.Update(ctx, prospect); err != nil {
		return nil, err
	}
	return prospect, nil
}

// ConvertToStore turns a prospect into a store account. The new store and
// the prospect's converted flag land in one transaction.
func (s *ProspectService) ConvertToStore(ctx context.Context, id int) (*models.Store, error) {
	prospect, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prospect.Status == "converted" {
		return nil, apperror.InvalidOrder(fmt.Sprintf("prospect %d is already converted", id))
	}

	tx, err := s.Prospects.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	store := &models.Store{
		Name:    prospect.Name,
		Email:   prospect.Email,
		Phone:   prospect.Phone,
		Address: prospect.Address,
	}
	if err := s.Stores.CreateTx(ctx, tx, store); err != nil {
		return nil, err
	}
	if err := s.Prospects.MarkConvertedTx(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateStoreCaches(ctx)
	return store, nil
}

func (s *ProspectService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Prospects.SoftDelete(ctx, id)
}
