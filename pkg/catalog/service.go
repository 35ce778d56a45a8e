package catalog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service is the storage and delivery core of the catalog: image
// upload/download against the blob store, product and carousel records
// referencing stored blobs, and the lifecycle coordination that keeps
// the two consistent.
type Service interface {
	// Binary assets
	UploadImage(ctx context.Context, reader io.Reader, req UploadImageRequest) (*UploadResult, error)
	OpenImage(ctx context.Context, logicalName string) (io.ReadCloser, *Blob, error)
	GetBlob(ctx context.Context, logicalName string) (*Blob, error)
	// DeleteImage is idempotent: deleting an unknown logical name is
	// not an error.
	DeleteImage(ctx context.Context, logicalName string) error

	// Products
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, req ListProductsRequest) ([]*Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// Carousel
	AddCarouselItem(ctx context.Context, req AddCarouselItemRequest) (*CarouselItem, error)
	ListCarouselItems(ctx context.Context, req ListCarouselItemsRequest) ([]*CarouselItem, error)
	DeleteCarouselItem(ctx context.Context, id uuid.UUID) error
	ReorderCarousel(ctx context.Context, order []uuid.UUID) ([]*CarouselItem, error)
}
