package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/catalog/pkg/catalog"
	"github.com/storekit/catalog/pkg/catalog/storage/fs"
)

func newBackend(t *testing.T) (catalog.BlobStore, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := fs.New(fs.Config{BaseDir: dir})
	require.NoError(t, err)
	return backend, dir
}

func TestFSBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a base directory", func(t *testing.T) {
		_, err := fs.New(fs.Config{})
		assert.Error(t, err)
	})

	t.Run("upload and download round trip", func(t *testing.T) {
		backend, _ := newBackend(t)

		err := backend.Upload(ctx, strings.NewReader("file bytes"), catalog.UploadParams{
			ObjectKey: "upload_1_abc.jpg",
		})
		require.NoError(t, err)

		reader, err := backend.Download(ctx, "upload_1_abc.jpg")
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "file bytes", string(data))
	})

	t.Run("failed read leaves no file behind", func(t *testing.T) {
		backend, dir := newBackend(t)

		err := backend.Upload(ctx, io.MultiReader(strings.NewReader("partial"), failingReader{}), catalog.UploadParams{
			ObjectKey: "broken.jpg",
		})
		require.Error(t, err)

		_, statErr := os.Stat(filepath.Join(dir, "broken.jpg"))
		assert.True(t, os.IsNotExist(statErr), "final key must not exist")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "no temp files should remain")
	})

	t.Run("download missing object", func(t *testing.T) {
		backend, _ := newBackend(t)

		_, err := backend.Download(ctx, "missing.jpg")
		assert.ErrorIs(t, err, catalog.ErrObjectNotFound)
	})

	t.Run("delete removes file and empty directories", func(t *testing.T) {
		backend, dir := newBackend(t)

		require.NoError(t, backend.Upload(ctx, strings.NewReader("x"), catalog.UploadParams{
			ObjectKey: "nested/deeper/file.png",
		}))
		require.NoError(t, backend.Delete(ctx, "nested/deeper/file.png"))

		_, err := os.Stat(filepath.Join(dir, "nested"))
		assert.True(t, os.IsNotExist(err), "emptied directories should be removed")

		assert.ErrorIs(t, backend.Delete(ctx, "nested/deeper/file.png"), catalog.ErrObjectNotFound)
	})

	t.Run("meta sniffs content type from bytes", func(t *testing.T) {
		backend, _ := newBackend(t)

		// Minimal PNG header
		png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 32)
		require.NoError(t, backend.Upload(ctx, strings.NewReader(png), catalog.UploadParams{
			ObjectKey: "pic.bin",
		}))

		meta, err := backend.Meta(ctx, "pic.bin")
		require.NoError(t, err)
		assert.Equal(t, "image/png", meta.ContentType)
		assert.Equal(t, int64(len(png)), meta.Size)
	})
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
