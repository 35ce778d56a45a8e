package catalog

import "github.com/google/uuid"

// Request/Response DTOs

// UploadImageRequest contains parameters for uploading a binary image.
// DeclaredSize is the payload length when known up front; pass -1 when
// the size is only discovered while streaming.
type UploadImageRequest struct {
	FileName           string
	DeclaredType       string
	DeclaredSize       int64
	StorageBackendName string // optional; defaults to the service default backend
}

// UploadResult is returned on successful upload
type UploadResult struct {
	Blob     *Blob
	ImageURL string // host-relative delivery URL embedding the logical name
}

// CreateProductRequest contains parameters for creating a product.
// Price is free-form text and may be empty.
type CreateProductRequest struct {
	Name         string
	Description  string
	Price        string
	ImageURL     string
	IsNewRelease bool
}

// UpdateProductRequest contains parameters for updating a product.
// A changed ImageURL triggers cleanup of the previously referenced blob.
type UpdateProductRequest struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Price        string
	ImageURL     string
	IsNewRelease bool
}

// ListProductsRequest contains parameters for listing products
type ListProductsRequest struct {
	NewReleasesOnly bool
	Limit           int
	Offset          int
}

// AddCarouselItemRequest contains parameters for appending a carousel item
type AddCarouselItemRequest struct {
	ImageURL     string
	FullImageURL string
	Alt          string
	Caption      string
}

// ListCarouselItemsRequest contains pagination for the carousel listing.
// Limit <= 0 means no limit.
type ListCarouselItemsRequest struct {
	Limit  int
	Offset int
}
