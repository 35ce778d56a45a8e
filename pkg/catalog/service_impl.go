package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes is the upload size ceiling applied when no
// WithMaxUploadBytes option is given (5 MiB).
const DefaultMaxUploadBytes int64 = 5 << 20

// service implements the Service interface
type service struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
	maxUploadBytes int64
	acceptType     func(mediaType string) bool
	assetURLPrefix string

	// carouselMu serializes carousel mutations so the dense 0..n-1
	// position invariant holds between operations even under
	// concurrent append/delete/reorder calls.
	carouselMu sync.Mutex
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore adds a blob storage backend under a name
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if s.blobStores == nil {
			s.blobStores = make(map[string]BlobStore)
		}
		s.blobStores[name] = store
	}
}

// WithDefaultBackend selects the backend used when a request does not
// name one
func WithDefaultBackend(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// WithMaxUploadBytes overrides the upload size ceiling
func WithMaxUploadBytes(n int64) Option {
	return func(s *service) {
		s.maxUploadBytes = n
	}
}

// WithAcceptedMediaType overrides the predicate deciding which declared
// media types uploads may carry
func WithAcceptedMediaType(accept func(mediaType string) bool) Option {
	return func(s *service) {
		s.acceptType = accept
	}
}

// WithAssetURLPrefix overrides the host-relative path prefix used to
// build delivery URLs
func WithAssetURLPrefix(prefix string) Option {
	return func(s *service) {
		s.assetURLPrefix = strings.TrimSuffix(prefix, "/")
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobStores:     make(map[string]BlobStore),
		maxUploadBytes: DefaultMaxUploadBytes,
		acceptType: func(mediaType string) bool {
			return strings.HasPrefix(mediaType, "image/")
		},
		assetURLPrefix: "/api/assets",
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	if s.defaultBackend == "" && len(s.blobStores) == 1 {
		for name := range s.blobStores {
			s.defaultBackend = name
		}
	}

	return s, nil
}

func (s *service) getBackend(name string) (BlobStore, error) {
	if len(s.blobStores) == 0 {
		return nil, ErrStorageNotReady
	}
	if name == "" {
		name = s.defaultBackend
	}
	if name == "" {
		return nil, ErrStorageNotReady
	}
	backend, exists := s.blobStores[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStorageBackendNotFound, name)
	}
	return backend, nil
}

// boundedReader counts bytes as they stream and fails the read once the
// total passes the ceiling, so oversize uploads abort mid-transfer
// instead of being buffered whole.
type boundedReader struct {
	r   io.Reader
	max int64
	n   int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.n += int64(n)
	if b.n > b.max {
		return n, fmt.Errorf("%w: stream exceeded %d bytes", ErrPayloadTooLarge, b.max)
	}
	return n, err
}

// Binary asset operations

func (s *service) UploadImage(ctx context.Context, reader io.Reader, req UploadImageRequest) (*UploadResult, error) {
	if !s.acceptType(req.DeclaredType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, req.DeclaredType)
	}
	if req.DeclaredSize > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: declared %d bytes, limit %d", ErrPayloadTooLarge, req.DeclaredSize, s.maxUploadBytes)
	}

	backendName := req.StorageBackendName
	if backendName == "" {
		backendName = s.defaultBackend
	}
	backend, err := s.getBackend(backendName)
	if err != nil {
		return nil, err
	}

	logicalName := newLogicalName(req.FileName)
	bounded := &boundedReader{r: reader, max: s.maxUploadBytes}

	if err := backend.Upload(ctx, bounded, UploadParams{ObjectKey: logicalName, MimeType: req.DeclaredType}); err != nil {
		// Discard whatever partial state the backend kept.
		if delErr := backend.Delete(ctx, logicalName); delErr != nil && !errors.Is(delErr, ErrObjectNotFound) {
			slog.Warn("failed to discard partial upload", "logical_name", logicalName, "error", delErr)
		}
		if errors.Is(err, ErrPayloadTooLarge) {
			return nil, err
		}
		return nil, &StorageError{Backend: backendName, Key: logicalName, Op: "upload", Err: err}
	}

	blob := &Blob{
		ID:                 uuid.New(),
		LogicalName:        logicalName,
		StorageBackendName: backendName,
		MimeType:           req.DeclaredType,
		SizeBytes:          bounded.n,
		CreatedAt:          time.Now().UTC(),
	}

	// The record insert is what makes the blob visible: readers either
	// miss entirely or see a fully written object.
	if err := s.repository.CreateBlob(ctx, blob); err != nil {
		if delErr := backend.Delete(ctx, logicalName); delErr != nil && !errors.Is(delErr, ErrObjectNotFound) {
			slog.Warn("failed to discard unrecorded upload", "logical_name", logicalName, "error", delErr)
		}
		return nil, &BlobError{Name: logicalName, Op: "create", Err: err}
	}

	return &UploadResult{
		Blob:     blob,
		ImageURL: s.assetURLPrefix + "/" + logicalName,
	}, nil
}

func (s *service) GetBlob(ctx context.Context, logicalName string) (*Blob, error) {
	return s.repository.GetBlobByName(ctx, logicalName)
}

func (s *service) OpenImage(ctx context.Context, logicalName string) (io.ReadCloser, *Blob, error) {
	blob, err := s.repository.GetBlobByName(ctx, logicalName)
	if err != nil {
		return nil, nil, err
	}

	backend, err := s.getBackend(blob.StorageBackendName)
	if err != nil {
		return nil, nil, &BlobError{Name: logicalName, Op: "open", Err: err}
	}

	reader, err := backend.Download(ctx, blob.LogicalName)
	if err != nil {
		return nil, nil, &StorageError{
			Backend: blob.StorageBackendName,
			Key:     blob.LogicalName,
			Op:      "download",
			Err:     err,
		}
	}

	return reader, blob, nil
}

func (s *service) DeleteImage(ctx context.Context, logicalName string) error {
	blob, err := s.repository.GetBlobByName(ctx, logicalName)
	if errors.Is(err, ErrBlobNotFound) {
		// Idempotent: cleanup paths race with or repeat after manual
		// deletion, and lifecycle extraction feeds foreign names here.
		return nil
	}
	if err != nil {
		return &BlobError{Name: logicalName, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteBlob(ctx, blob.ID); err != nil {
		return &BlobError{Name: logicalName, Op: "delete", Err: err}
	}

	// The record is gone, so a failure past this point leaks bytes at
	// worst. A leaked blob is recoverable; a dangling record is not.
	backend, err := s.getBackend(blob.StorageBackendName)
	if err != nil {
		slog.Warn("blob bytes not removed, backend unavailable",
			"logical_name", logicalName, "backend", blob.StorageBackendName, "error", err)
		return nil
	}
	if err := backend.Delete(ctx, blob.LogicalName); err != nil && !errors.Is(err, ErrObjectNotFound) {
		slog.Warn("blob bytes not removed",
			"logical_name", logicalName, "backend", blob.StorageBackendName, "error", err)
	}
	return nil
}

// Lifecycle coordination

// cleanupReplacedImage removes the blob a record stopped referencing.
// No-op when the reference did not change or was never set. Failures
// are logged and swallowed: the entity record is the authoritative
// state and its mutation must not be blocked by blob cleanup.
func (s *service) cleanupReplacedImage(ctx context.Context, oldImageURL, newImageURL string) {
	if oldImageURL == "" || oldImageURL == newImageURL {
		return
	}
	logicalName := LogicalNameFromURL(oldImageURL)
	if logicalName == "" {
		return
	}
	if err := s.DeleteImage(ctx, logicalName); err != nil {
		slog.Warn("orphaned blob cleanup failed", "logical_name", logicalName, "error", err)
	}
}

// cleanupEntityImages runs replaced-image cleanup for every image URL of
// a deleted entity.
func (s *service) cleanupEntityImages(ctx context.Context, imageURLs ...string) {
	for _, u := range imageURLs {
		s.cleanupReplacedImage(ctx, u, "")
	}
}
