package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storekit/catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) catalog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) catalog.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "blob") {
				return fmt.Errorf("blob already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Blob records

func (r *Repository) CreateBlob(ctx context.Context, blob *catalog.Blob) error {
	query := `
		INSERT INTO blobs (
			id, logical_name, storage_backend_name, mime_type, size_bytes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		blob.ID, blob.LogicalName, blob.StorageBackendName,
		blob.MimeType, blob.SizeBytes, blob.CreatedAt)

	if err != nil {
		return r.handlePostgresError("create blob", err)
	}

	return nil
}

func (r *Repository) GetBlobByName(ctx context.Context, logicalName string) (*catalog.Blob, error) {
	query := `
        SELECT id, logical_name, storage_backend_name, mime_type, size_bytes, created_at
        FROM blobs WHERE logical_name = $1`

	var blob catalog.Blob
	err := r.db.QueryRow(ctx, query, logicalName).Scan(
		&blob.ID, &blob.LogicalName, &blob.StorageBackendName,
		&blob.MimeType, &blob.SizeBytes, &blob.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrBlobNotFound
		}
		return nil, err
	}

	return &blob, nil
}

// DeleteBlob is idempotent: deleting a missing id is not an error.
func (r *Repository) DeleteBlob(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM blobs WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete blob", err)
	}
	return nil
}

// Products

func (r *Repository) CreateProduct(ctx context.Context, product *catalog.Product) error {
	query := `
		INSERT INTO products (
			id, name, description, price, image_url, is_new_release, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.ImageURL, product.IsNewRelease, product.CreatedAt, product.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create product", err)
	}

	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	query := `
        SELECT id, name, description, price, image_url, is_new_release, created_at, updated_at
        FROM products WHERE id = $1`

	var product catalog.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.ImageURL, &product.IsNewRelease, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, error) {
	query := `
        SELECT id, name, description, price, image_url, is_new_release, created_at, updated_at
        FROM products`

	var args []interface{}
	if filter.NewReleasesOnly {
		query += ` WHERE is_new_release = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*catalog.Product{}
	for rows.Next() {
		var product catalog.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Price,
			&product.ImageURL, &product.IsNewRelease, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

func (r *Repository) UpdateProduct(ctx context.Context, product *catalog.Product) error {
	query := `
		UPDATE products SET
			name = $2, description = $3, price = $4, image_url = $5,
			is_new_release = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.ImageURL, product.IsNewRelease, product.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}

	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}

	return nil
}

// Carousel

func (r *Repository) CreateCarouselItem(ctx context.Context, item *catalog.CarouselItem) error {
	query := `
		INSERT INTO carousel_items (
			id, image_url, full_image_url, alt, caption, position, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.ImageURL, item.FullImageURL, item.Alt,
		item.Caption, item.Position, item.CreatedAt)

	if err != nil {
		return r.handlePostgresError("create carousel item", err)
	}

	return nil
}

func (r *Repository) GetCarouselItem(ctx context.Context, id uuid.UUID) (*catalog.CarouselItem, error) {
	query := `
        SELECT id, image_url, full_image_url, alt, caption, position, created_at
        FROM carousel_items WHERE id = $1`

	var item catalog.CarouselItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.ImageURL, &item.FullImageURL, &item.Alt,
		&item.Caption, &item.Position, &item.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCarouselItemNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *Repository) ListCarouselItems(ctx context.Context) ([]*catalog.CarouselItem, error) {
	query := `
        SELECT id, image_url, full_image_url, alt, caption, position, created_at
        FROM carousel_items ORDER BY position ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*catalog.CarouselItem{}
	for rows.Next() {
		var item catalog.CarouselItem
		if err := rows.Scan(
			&item.ID, &item.ImageURL, &item.FullImageURL, &item.Alt,
			&item.Caption, &item.Position, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *Repository) CountCarouselItems(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM carousel_items`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) UpdateCarouselItemPosition(ctx context.Context, id uuid.UUID, position int) error {
	query := `UPDATE carousel_items SET position = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, position)
	if err != nil {
		return r.handlePostgresError("update carousel item position", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCarouselItemNotFound
	}

	return nil
}

// txBeginner is satisfied by *pgxpool.Pool and *pgx.Conn but not by a
// transaction already in flight.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UpdateCarouselItemPositions applies a batch of position updates in a
// single transaction when the underlying DBTX can open one, so the
// whole batch commits or rolls back together. Inside an existing
// transaction the updates run directly and inherit its atomicity.
func (r *Repository) UpdateCarouselItemPositions(ctx context.Context, positions []catalog.CarouselPosition) error {
	if len(positions) == 0 {
		return nil
	}

	beginner, ok := r.db.(txBeginner)
	if !ok {
		for _, p := range positions {
			if err := r.UpdateCarouselItemPosition(ctx, p.ID, p.Position); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("begin carousel reorder", err)
	}
	defer tx.Rollback(ctx)

	txRepo := &Repository{db: tx}
	for _, p := range positions {
		if err := txRepo.UpdateCarouselItemPosition(ctx, p.ID, p.Position); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError("commit carousel reorder", err)
	}
	return nil
}

func (r *Repository) DeleteCarouselItem(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM carousel_items WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete carousel item", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCarouselItemNotFound
	}

	return nil
}
