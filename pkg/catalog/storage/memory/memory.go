package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/storekit/catalog/pkg/catalog"
)

// Backend is an in-memory implementation of the catalog.BlobStore
// interface, used for tests and development.
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	mimeTypes map[string]string
	updatedAt map[string]time.Time
}

// New creates a new in-memory storage backend
func New() catalog.BlobStore {
	return &Backend{
		objects:   make(map[string][]byte),
		mimeTypes: make(map[string]string),
		updatedAt: make(map[string]time.Time),
	}
}

// Upload buffers the whole object before publishing it, so a failed
// read never leaves a partially visible object.
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params catalog.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = data
	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	b.mimeTypes[params.ObjectKey] = mimeType
	b.updatedAt[params.ObjectKey] = time.Now()
	return nil
}

// Download returns a byte stream for a stored object
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, catalog.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a stored object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return catalog.ErrObjectNotFound
	}

	delete(b.objects, objectKey)
	delete(b.mimeTypes, objectKey)
	delete(b.updatedAt, objectKey)
	return nil
}

// Meta retrieves metadata for an object in memory
func (b *Backend) Meta(ctx context.Context, objectKey string) (*catalog.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, catalog.ErrObjectNotFound
	}

	return &catalog.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: b.mimeTypes[objectKey],
		UpdatedAt:   b.updatedAt[objectKey],
	}, nil
}
