package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrBlobNotFound indicates no blob record matches a logical name
	ErrBlobNotFound = errors.New("blob not found")

	// ErrObjectNotFound indicates a storage backend has no bytes for a key
	ErrObjectNotFound = errors.New("storage object not found")

	// ErrProductNotFound indicates a product was not found
	ErrProductNotFound = errors.New("product not found")

	// ErrCarouselItemNotFound indicates a carousel item was not found
	ErrCarouselItemNotFound = errors.New("carousel item not found")

	// ErrStorageBackendNotFound indicates a storage backend was not found
	ErrStorageBackendNotFound = errors.New("storage backend not found")

	// ErrStorageNotReady indicates the service has no usable blob storage yet
	ErrStorageNotReady = errors.New("blob storage not ready")

	// ErrInvalidMediaType indicates an upload's declared type was rejected
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrPayloadTooLarge indicates an upload exceeded the size ceiling
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidOrder indicates a reorder payload does not match the
	// current carousel item set exactly
	ErrInvalidOrder = errors.New("invalid carousel order")
)

// BlobError represents an error related to blob operations
type BlobError struct {
	Name string
	Op   string
	Err  error
}

func (e *BlobError) Error() string {
	return fmt.Sprintf("blob operation %s failed for %q: %v", e.Op, e.Name, e.Err)
}

func (e *BlobError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage backend operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
