package db

import (
	"context"
	"database/sql"
	"log/slog"

	"catalog-service/app/domain"
)

type productRepository struct {
	conn *sql.DB
}

func NewProductRepository(db *sql.DB) domain.ProductRepository {
	return &productRepository{db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, price, stock, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.conn.QueryRowContext(ctx, query,
		product.Name.Value(), product.Price.Amount(), product.Stock.Quantity(),
		product.CreatedAt, product.UpdatedAt).Scan(&product.ID)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Create", "queryRowContext", err)
		return err
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, price, stock, created_at, updated_at FROM products WHERE id = $1`

	row, err := scanProduct(r.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetByID", "queryRowContext", err)
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return row, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT id, name, price, stock, created_at, updated_at FROM products`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetAll", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			slog.ErrorContext(ctx, "[productRepository] GetAll", "scan", err)
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetAll", "rowError", err)
		return nil, err
	}

	return products, nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id, stock int64, tx *sql.Tx) error {
	query := `UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, stock, id)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] UpdateStock", "execContext", err)
		return err
	}

	return nil
}

func (r *productRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[productRepository] WithTransaction", "rollback", rollbackErr)
			return err
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[productRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		id, price, stock     int64
		name                 string
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(&id, &name, &price, &stock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.HydrateProduct(id, name, price, stock, createdAt.Time, updatedAt.Time), nil
}
