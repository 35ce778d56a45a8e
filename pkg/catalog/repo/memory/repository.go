package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/storekit/catalog/pkg/catalog"
)

// Repository implements catalog.Repository using in-memory storage
type Repository struct {
	mu          sync.RWMutex
	blobs       map[uuid.UUID]*catalog.Blob
	blobsByName map[string]uuid.UUID
	products    map[uuid.UUID]*catalog.Product
	carousel    map[uuid.UUID]*catalog.CarouselItem
}

// New creates a new in-memory repository
func New() catalog.Repository {
	return &Repository{
		blobs:       make(map[uuid.UUID]*catalog.Blob),
		blobsByName: make(map[string]uuid.UUID),
		products:    make(map[uuid.UUID]*catalog.Product),
		carousel:    make(map[uuid.UUID]*catalog.CarouselItem),
	}
}

// Blob records

func (r *Repository) CreateBlob(ctx context.Context, blob *catalog.Blob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	blobCopy := *blob
	r.blobs[blob.ID] = &blobCopy
	r.blobsByName[blob.LogicalName] = blob.ID

	return nil
}

func (r *Repository) GetBlobByName(ctx context.Context, logicalName string) (*catalog.Blob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.blobsByName[logicalName]
	if !exists {
		return nil, catalog.ErrBlobNotFound
	}
	blob, exists := r.blobs[id]
	if !exists {
		return nil, catalog.ErrBlobNotFound
	}

	blobCopy := *blob
	return &blobCopy, nil
}

// DeleteBlob is idempotent: cleanup paths repeat after or race with
// manual deletion, so a missing id is not an error.
func (r *Repository) DeleteBlob(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, exists := r.blobs[id]
	if !exists {
		return nil
	}

	delete(r.blobsByName, blob.LogicalName)
	delete(r.blobs, id)
	return nil
}

// Products

func (r *Repository) CreateProduct(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	productCopy := *product
	r.products[product.ID] = &productCopy

	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, catalog.ErrProductNotFound
	}

	productCopy := *product
	return &productCopy, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.NewReleasesOnly && !product.IsNewRelease {
			continue
		}
		productCopy := *product
		result = append(result, &productCopy)
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*catalog.Product{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		return catalog.ErrProductNotFound
	}

	productCopy := *product
	r.products[product.ID] = &productCopy

	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return catalog.ErrProductNotFound
	}

	delete(r.products, id)
	return nil
}

// Carousel

func (r *Repository) CreateCarouselItem(ctx context.Context, item *catalog.CarouselItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	itemCopy := *item
	r.carousel[item.ID] = &itemCopy

	return nil
}

func (r *Repository) GetCarouselItem(ctx context.Context, id uuid.UUID) (*catalog.CarouselItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.carousel[id]
	if !exists {
		return nil, catalog.ErrCarouselItemNotFound
	}

	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) ListCarouselItems(ctx context.Context) ([]*catalog.CarouselItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.CarouselItem, 0, len(r.carousel))
	for _, item := range r.carousel {
		itemCopy := *item
		result = append(result, &itemCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})

	return result, nil
}

func (r *Repository) CountCarouselItems(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.carousel), nil
}

func (r *Repository) UpdateCarouselItemPosition(ctx context.Context, id uuid.UUID, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.carousel[id]
	if !exists {
		return catalog.ErrCarouselItemNotFound
	}

	item.Position = position
	return nil
}

// UpdateCarouselItemPositions applies a batch of position updates
// atomically: every id is validated before the first write, so a bad
// batch leaves the ordering untouched.
func (r *Repository) UpdateCarouselItemPositions(ctx context.Context, positions []catalog.CarouselPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range positions {
		if _, exists := r.carousel[p.ID]; !exists {
			return catalog.ErrCarouselItemNotFound
		}
	}
	for _, p := range positions {
		r.carousel[p.ID].Position = p.Position
	}
	return nil
}

func (r *Repository) DeleteCarouselItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.carousel[id]; !exists {
		return catalog.ErrCarouselItemNotFound
	}

	delete(r.carousel, id)
	return nil
}
