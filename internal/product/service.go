// File: internal/product/service.go
package product

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultCurrency = "GTQ"
)

// Service implements the catalog operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the page of active products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.MinPriceCents < 0 || filter.MaxPriceCents < 0 {
		return ListResult{}, fmt.Errorf("price bounds must be non-negative: %w", apperrors.ErrValidation)
	}
	if filter.MaxPriceCents > 0 && filter.MinPriceCents > filter.MaxPriceCents {
		return ListResult{}, fmt.Errorf("minPrice exceeds maxPrice: %w", apperrors.ErrValidation)
	}

	items, total, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	if items == nil {
		items = []Product{}
	}
	return ListResult{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// Get returns an active product. Inactive products are reported as not
// found so the public catalog never leaks retired entries.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

// Create adds a catalog entry. Currency defaults when omitted.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("currency must be a 3-letter code: %w", apperrors.ErrValidation)
	}

	p := &Product{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
		Currency:    currency,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// Update applies a partial update. Unlike Get it operates on inactive
// products too, so a retired product can be reactivated.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return nil, fmt.Errorf("priceCents must be positive: %w", apperrors.ErrValidation)
		}
		p.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		if len(*req.Currency) != 3 {
			return nil, fmt.Errorf("currency must be a 3-letter code: %w", apperrors.ErrValidation)
		}
		p.Currency = *req.Currency
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete soft-deletes the product. Deleting an already inactive product is
// reported as not found.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return apperrors.ErrNotFound
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deactivated", zap.Int64("product_id", id))
	return nil
}
