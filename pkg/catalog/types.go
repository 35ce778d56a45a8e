package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Blob represents one stored binary object. A blob is immutable once
// written: replacing an image means writing a new blob and deleting the
// old one. Entity records never hold blob bytes, only a URL embedding
// the blob's logical name.
type Blob struct {
	ID                 uuid.UUID `json:"id"`
	LogicalName        string    `json:"logical_name"`
	StorageBackendName string    `json:"storage_backend_name"`
	MimeType           string    `json:"mime_type"`
	SizeBytes          int64     `json:"size_bytes"`
	CreatedAt          time.Time `json:"created_at"`
}

// Product is a catalog entry. Price is free-form text (currency and
// formatting are the caller's concern) and may be empty.
type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	ImageURL     string    `json:"imageUrl"`
	IsNewRelease bool      `json:"isNewRelease"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CarouselItem is one entry of the homepage carousel. Position values
// across the full collection form a contiguous range 0..n-1 with no
// duplicates, observable between operations.
type CarouselItem struct {
	ID           uuid.UUID `json:"id"`
	ImageURL     string    `json:"imageUrl"`
	FullImageURL string    `json:"fullImageUrl,omitempty"`
	Alt          string    `json:"alt,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}
