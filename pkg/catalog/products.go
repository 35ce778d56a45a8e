package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product operations

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsNewRelease: req.IsNewRelease,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repository.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repository.GetProduct(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, req ListProductsRequest) ([]*Product, error) {
	return s.repository.ListProducts(ctx, ProductFilter{
		NewReleasesOnly: req.NewReleasesOnly,
		Limit:           req.Limit,
		Offset:          req.Offset,
	})
}

func (s *service) UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repository.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	product := &Product{
		ID:           existing.ID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsNewRelease: req.IsNewRelease,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.repository.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	// Only after the record mutation succeeds may the old blob go.
	s.cleanupReplacedImage(ctx, existing.ImageURL, product.ImageURL)

	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repository.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.cleanupEntityImages(ctx, existing.ImageURL)
	return nil
}
