package catalog

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for byte storage backends. Backends
// store opaque objects under a key; blob metadata (mime type, size,
// creation time) is tracked by the Repository, not the backend.
//
// Delete and Download return ErrObjectNotFound (possibly wrapped) for
// unknown keys so callers can distinguish absence from transport
// failures.
type BlobStore interface {
	// Upload streams an object into the backend. The object must not
	// be observable by Download until Upload has returned nil.
	Upload(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download returns a byte stream for a stored object
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes a stored object
	Delete(ctx context.Context, objectKey string) error

	// Meta retrieves storage-level metadata for an object
	Meta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// ObjectMeta contains storage-level metadata about an object
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

// Repository defines the interface for catalog persistence: blob
// records, products and carousel items.
type Repository interface {
	// Blob records
	CreateBlob(ctx context.Context, blob *Blob) error
	GetBlobByName(ctx context.Context, logicalName string) (*Blob, error)
	DeleteBlob(ctx context.Context, id uuid.UUID) error

	// Products
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// Carousel. ListCarouselItems returns the full collection sorted
	// by position ascending. UpdateCarouselItemPositions applies the
	// whole batch or none of it, so a mid-batch failure cannot leave
	// the ordering with gaps or duplicates.
	CreateCarouselItem(ctx context.Context, item *CarouselItem) error
	GetCarouselItem(ctx context.Context, id uuid.UUID) (*CarouselItem, error)
	ListCarouselItems(ctx context.Context) ([]*CarouselItem, error)
	CountCarouselItems(ctx context.Context) (int, error)
	UpdateCarouselItemPosition(ctx context.Context, id uuid.UUID, position int) error
	UpdateCarouselItemPositions(ctx context.Context, positions []CarouselPosition) error
	DeleteCarouselItem(ctx context.Context, id uuid.UUID) error
}

// CarouselPosition pairs a carousel item id with its target position
type CarouselPosition struct {
	ID       uuid.UUID
	Position int
}

// ProductFilter defines filtering options for listing products
type ProductFilter struct {
	NewReleasesOnly bool
	Limit           int
	Offset          int
}
