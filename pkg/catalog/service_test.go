package catalog_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/catalog/pkg/catalog"
	"github.com/storekit/catalog/pkg/catalog/repo/memory"
	memorystorage "github.com/storekit/catalog/pkg/catalog/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []catalog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []catalog.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []catalog.Option{
				catalog.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and blob store should succeed",
			options: []catalog.Option{
				catalog.WithRepository(memory.New()),
				catalog.WithBlobStore("memory", memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := catalog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T, options ...catalog.Option) catalog.Service {
	base := []catalog.Option{
		catalog.WithRepository(memory.New()),
		catalog.WithBlobStore("memory", memorystorage.New()),
	}

	svc, err := catalog.New(append(base, options...)...)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc
}

func uploadImage(t *testing.T, svc catalog.Service, fileName, mimeType, content string) *catalog.UploadResult {
	t.Helper()

	result, err := svc.UploadImage(context.Background(), strings.NewReader(content), catalog.UploadImageRequest{
		FileName:     fileName,
		DeclaredType: mimeType,
		DeclaredSize: int64(len(content)),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestUploadImage(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("round trip preserves bytes and media type", func(t *testing.T) {
		content := "fake jpeg bytes"
		result := uploadImage(t, svc, "photo.jpg", "image/jpeg", content)

		assert.True(t, strings.HasSuffix(result.Blob.LogicalName, ".jpg"))
		assert.Equal(t, "/api/assets/"+result.Blob.LogicalName, result.ImageURL)
		assert.Equal(t, int64(len(content)), result.Blob.SizeBytes)

		body, blob, err := svc.OpenImage(ctx, result.Blob.LogicalName)
		require.NoError(t, err)
		defer body.Close()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
		assert.Equal(t, "image/jpeg", blob.MimeType)
	})

	t.Run("repeated uploads of the same file get distinct names", func(t *testing.T) {
		names := make(map[string]bool)
		for i := 0; i < 10; i++ {
			result := uploadImage(t, svc, "same.png", "image/png", "png bytes")
			assert.False(t, names[result.Blob.LogicalName], "name %s repeated", result.Blob.LogicalName)
			names[result.Blob.LogicalName] = true
		}
	})

	t.Run("non-image media type is rejected before any write", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, strings.NewReader("%PDF-1.4"), catalog.UploadImageRequest{
			FileName:     "doc.pdf",
			DeclaredType: "application/pdf",
			DeclaredSize: 8,
		})
		assert.ErrorIs(t, err, catalog.ErrInvalidMediaType)
	})

	t.Run("declared size over the limit is rejected", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, strings.NewReader("x"), catalog.UploadImageRequest{
			FileName:     "big.jpg",
			DeclaredType: "image/jpeg",
			DeclaredSize: catalog.DefaultMaxUploadBytes + 1,
		})
		assert.ErrorIs(t, err, catalog.ErrPayloadTooLarge)
	})

	t.Run("stream exceeding the limit aborts and leaves no blob", func(t *testing.T) {
		small := setupTestService(t, catalog.WithMaxUploadBytes(16))

		_, err := small.UploadImage(ctx, strings.NewReader(strings.Repeat("a", 64)), catalog.UploadImageRequest{
			FileName:     "sneaky.jpg",
			DeclaredType: "image/jpeg",
			DeclaredSize: -1,
		})
		assert.ErrorIs(t, err, catalog.ErrPayloadTooLarge)
	})

	t.Run("upload without any backend fails with storage not ready", func(t *testing.T) {
		svc, err := catalog.New(catalog.WithRepository(memory.New()))
		require.NoError(t, err)

		_, err = svc.UploadImage(ctx, strings.NewReader("x"), catalog.UploadImageRequest{
			FileName:     "a.jpg",
			DeclaredType: "image/jpeg",
			DeclaredSize: 1,
		})
		assert.ErrorIs(t, err, catalog.ErrStorageNotReady)
	})
}

func TestOpenImage(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("unknown name returns blob not found", func(t *testing.T) {
		_, _, err := svc.OpenImage(ctx, "upload_123_missing.jpg")
		assert.ErrorIs(t, err, catalog.ErrBlobNotFound)
	})
}

func TestDeleteImage(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("deleted image is no longer served", func(t *testing.T) {
		result := uploadImage(t, svc, "gone.jpg", "image/jpeg", "bytes")

		require.NoError(t, svc.DeleteImage(ctx, result.Blob.LogicalName))

		_, _, err := svc.OpenImage(ctx, result.Blob.LogicalName)
		assert.ErrorIs(t, err, catalog.ErrBlobNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		result := uploadImage(t, svc, "twice.jpg", "image/jpeg", "bytes")

		require.NoError(t, svc.DeleteImage(ctx, result.Blob.LogicalName))
		assert.NoError(t, svc.DeleteImage(ctx, result.Blob.LogicalName))
	})

	t.Run("unknown name is not an error", func(t *testing.T) {
		assert.NoError(t, svc.DeleteImage(ctx, "never-existed.jpg"))
	})
}

func TestProductOperations(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{
			Name:         "Widget",
			Description:  "A widget",
			Price:        "R$ 10,00",
			IsNewRelease: true,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, product.ID)

		got, err := svc.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)
		assert.Equal(t, "R$ 10,00", got.Price)
		assert.True(t, got.IsNewRelease)
	})

	t.Run("get unknown product", func(t *testing.T) {
		_, err := svc.GetProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("new releases filter", func(t *testing.T) {
		svc := setupTestService(t)

		for i := 0; i < 3; i++ {
			_, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{Name: "old", IsNewRelease: false})
			require.NoError(t, err)
		}
		_, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{Name: "new", IsNewRelease: true})
		require.NoError(t, err)

		all, err := svc.ListProducts(ctx, catalog.ListProductsRequest{})
		require.NoError(t, err)
		assert.Len(t, all, 4)

		fresh, err := svc.ListProducts(ctx, catalog.ListProductsRequest{NewReleasesOnly: true})
		require.NoError(t, err)
		require.Len(t, fresh, 1)
		assert.Equal(t, "new", fresh[0].Name)
	})

	t.Run("update replaces fields and keeps created_at", func(t *testing.T) {
		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{Name: "before", Price: "1.00"})
		require.NoError(t, err)

		updated, err := svc.UpdateProduct(ctx, catalog.UpdateProductRequest{
			ID:    product.ID,
			Name:  "after",
			Price: "2.00",
		})
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Name)
		assert.Equal(t, product.CreatedAt, updated.CreatedAt)
	})

	t.Run("update unknown product", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, catalog.UpdateProductRequest{ID: uuid.New(), Name: "x"})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{Name: "doomed"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProduct(ctx, product.ID))

		_, err = svc.GetProduct(ctx, product.ID)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestProductImageLifecycle(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("replacing a product image deletes the old blob", func(t *testing.T) {
		oldUpload := uploadImage(t, svc, "old.jpg", "image/jpeg", "old bytes")
		newUpload := uploadImage(t, svc, "new.jpg", "image/jpeg", "new bytes")

		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{
			Name:     "Widget",
			ImageURL: oldUpload.ImageURL,
		})
		require.NoError(t, err)

		_, err = svc.UpdateProduct(ctx, catalog.UpdateProductRequest{
			ID:       product.ID,
			Name:     product.Name,
			ImageURL: newUpload.ImageURL,
		})
		require.NoError(t, err)

		_, _, err = svc.OpenImage(ctx, oldUpload.Blob.LogicalName)
		assert.ErrorIs(t, err, catalog.ErrBlobNotFound, "replaced blob should be gone")

		_, _, err = svc.OpenImage(ctx, newUpload.Blob.LogicalName)
		assert.NoError(t, err, "current blob must survive")
	})

	t.Run("update with unchanged image keeps the blob", func(t *testing.T) {
		upload := uploadImage(t, svc, "keep.jpg", "image/jpeg", "bytes")

		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{
			Name:     "Widget",
			ImageURL: upload.ImageURL,
		})
		require.NoError(t, err)

		_, err = svc.UpdateProduct(ctx, catalog.UpdateProductRequest{
			ID:       product.ID,
			Name:     "Renamed",
			ImageURL: upload.ImageURL,
		})
		require.NoError(t, err)

		_, _, err = svc.OpenImage(ctx, upload.Blob.LogicalName)
		assert.NoError(t, err)
	})

	t.Run("deleting a product deletes its image", func(t *testing.T) {
		upload := uploadImage(t, svc, "prod.jpg", "image/jpeg", "bytes")

		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{
			Name:     "Widget",
			ImageURL: upload.ImageURL,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteProduct(ctx, product.ID))

		_, _, err = svc.OpenImage(ctx, upload.Blob.LogicalName)
		assert.ErrorIs(t, err, catalog.ErrBlobNotFound)
	})

	t.Run("foreign image urls are left alone", func(t *testing.T) {
		product, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{
			Name:     "External",
			ImageURL: "https://cdn.example.com/products/widget.jpg",
		})
		require.NoError(t, err)

		// Neither update nor delete should fail over an unknown URL
		_, err = svc.UpdateProduct(ctx, catalog.UpdateProductRequest{
			ID:       product.ID,
			Name:     "External",
			ImageURL: "https://cdn.example.com/products/widget-v2.jpg",
		})
		require.NoError(t, err)
		assert.NoError(t, svc.DeleteProduct(ctx, product.ID))
	})
}

func carouselIDs(items []*catalog.CarouselItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func assertDensePositions(t *testing.T, items []*catalog.CarouselItem) {
	t.Helper()
	for i, item := range items {
		assert.Equal(t, i, item.Position, "item %d has position %d", i, item.Position)
	}
}

func TestCarouselOperations(t *testing.T) {
	ctx := context.Background()

	addItem := func(t *testing.T, svc catalog.Service, alt string) *catalog.CarouselItem {
		t.Helper()
		item, err := svc.AddCarouselItem(ctx, catalog.AddCarouselItemRequest{
			ImageURL: "/api/assets/" + alt + ".jpg",
			Alt:      alt,
		})
		require.NoError(t, err)
		return item
	}

	t.Run("appended items get consecutive positions", func(t *testing.T) {
		svc := setupTestService(t)

		for i := 0; i < 5; i++ {
			item := addItem(t, svc, "slide")
			assert.Equal(t, i, item.Position)
		}

		items, err := svc.ListCarouselItems(ctx, catalog.ListCarouselItemsRequest{})
		require.NoError(t, err)
		assertDensePositions(t, items)
	})

	t.Run("deleting the middle item closes the gap", func(t *testing.T) {
		svc := setupTestService(t)

		first := addItem(t, svc, "a")
		second := addItem(t, svc, "b")
		third := addItem(t, svc, "c")

		require.NoError(t, svc.DeleteCarouselItem(ctx, second.ID))

		items, err := svc.ListCarouselItems(ctx, catalog.ListCarouselItemsRequest{})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assertDensePositions(t, items)
		assert.Equal(t, []uuid.UUID{first.ID, third.ID}, carouselIDs(items))
	})

	t.Run("delete unknown item", func(t *testing.T) {
		svc := setupTestService(t)
		err := svc.DeleteCarouselItem(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrCarouselItemNotFound)
	})

	t.Run("reorder applies the requested sequence", func(t *testing.T) {
		svc := setupTestService(t)

		a := addItem(t, svc, "a")
		b := addItem(t, svc, "b")
		c := addItem(t, svc, "c")

		reordered, err := svc.ReorderCarousel(ctx, []uuid.UUID{c.ID, a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, carouselIDs(reordered))
		assertDensePositions(t, reordered)

		items, err := svc.ListCarouselItems(ctx, catalog.ListCarouselItemsRequest{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, carouselIDs(items))
	})

	t.Run("reorder with the current sequence is a no-op", func(t *testing.T) {
		svc := setupTestService(t)

		a := addItem(t, svc, "a")
		b := addItem(t, svc, "b")

		reordered, err := svc.ReorderCarousel(ctx, []uuid.UUID{a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, carouselIDs(reordered))
	})

	t.Run("reorder rejects bad id sets", func(t *testing.T) {
		svc := setupTestService(t)

		a := addItem(t, svc, "a")
		b := addItem(t, svc, "b")

		_, err := svc.ReorderCarousel(ctx, []uuid.UUID{a.ID})
		assert.ErrorIs(t, err, catalog.ErrInvalidOrder, "missing id")

		_, err = svc.ReorderCarousel(ctx, []uuid.UUID{a.ID, uuid.New()})
		assert.ErrorIs(t, err, catalog.ErrInvalidOrder, "unknown id")

		_, err = svc.ReorderCarousel(ctx, []uuid.UUID{a.ID, a.ID})
		assert.ErrorIs(t, err, catalog.ErrInvalidOrder, "duplicate id")

		// Failed reorders leave the ordering untouched
		items, err := svc.ListCarouselItems(ctx, catalog.ListCarouselItemsRequest{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, carouselIDs(items))
	})

	t.Run("pagination slices the position ordering", func(t *testing.T) {
		svc := setupTestService(t)

		var all []uuid.UUID
		for i := 0; i < 5; i++ {
			all = append(all, addItem(t, svc, "slide").ID)
		}

		page, err := svc.ListCarouselItems(ctx, catalog.ListCarouselItemsRequest{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, all[1:3], carouselIDs(page))

		empty, err := svc.ListCarouselItems(ctx, catalog.ListCarouselItemsRequest{Offset: 99})
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("deleting an item removes its images", func(t *testing.T) {
		svc := setupTestService(t)

		thumb := uploadImage(t, svc, "thumb.jpg", "image/jpeg", "thumb")
		full := uploadImage(t, svc, "full.jpg", "image/jpeg", "full")

		item, err := svc.AddCarouselItem(ctx, catalog.AddCarouselItemRequest{
			ImageURL:     thumb.ImageURL,
			FullImageURL: full.ImageURL,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCarouselItem(ctx, item.ID))

		_, _, err = svc.OpenImage(ctx, thumb.Blob.LogicalName)
		assert.ErrorIs(t, err, catalog.ErrBlobNotFound)
		_, _, err = svc.OpenImage(ctx, full.Blob.LogicalName)
		assert.ErrorIs(t, err, catalog.ErrBlobNotFound)
	})
}
