package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/models"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, quantity, price, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PgStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	args := []any{}
	whereConditions := []string{}
	paramIndex := 1

	if filter.QuantityBelow != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("quantity < $%d", paramIndex))
		args = append(args, *filter.QuantityBelow)
		paramIndex++
	}

	if filter.QuantityAbove != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("quantity > $%d", paramIndex))
		args = append(args, *filter.QuantityAbove)
		paramIndex++
	}

	if len(whereConditions) > 0 {
		query += " WHERE " + strings.Join(whereConditions, " AND ")
	}

	switch filter.OrderBy {
	case models.OrderByName:
		query += " ORDER BY name ASC, id ASC"
	case models.OrderByQuantity:
		query += " ORDER BY quantity ASC, id ASC"
	default:
		query += " ORDER BY id ASC"
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *PgStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	p, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("Product")
	}
	return p, err
}

func (s *PgStore) InsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, quantity, price)
		VALUES ($1, $2, $3)
		RETURNING id, price, created_at, updated_at
	`
	return s.db.QueryRow(ctx, query, product.Name, product.Quantity, product.Price).
		Scan(&product.ID, &product.Price, &product.CreatedAt, &product.UpdatedAt)
}

func (s *PgStore) UpdateProduct(ctx context.Context, id int64, update models.ProductUpdate, updatedAt time.Time) (*models.Product, error) {
	setClauses := []string{}
	args := []any{}
	paramIndex := 1

	if update.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", paramIndex))
		args = append(args, *update.Name)
		paramIndex++
	}
	if update.Quantity != nil {
		setClauses = append(setClauses, fmt.Sprintf("quantity = $%d", paramIndex))
		args = append(args, *update.Quantity)
		paramIndex++
	}
	if update.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", paramIndex))
		args = append(args, *update.Price)
		paramIndex++
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", paramIndex))
	args = append(args, updatedAt)
	paramIndex++

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), paramIndex, productColumns)
	args = append(args, id)

	p, err := scanProduct(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("Product")
	}
	return p, err
}

func (s *PgStore) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("Product")
	}
	return nil
}

func (s *PgStore) DecrementProductQuantity(ctx context.Context, id int64, n int, updatedAt time.Time) error {
	if n <= 0 {
		return apperrors.Validation("Stock decrement must be positive, got %d", n)
	}
	query := `UPDATE products SET quantity = quantity - $1, updated_at = $2 WHERE id = $3 AND quantity >= $1`

	result, err := s.db.Exec(ctx, query, n, updatedAt, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.InsufficientStockAtCommit(id, n)
	}
	return nil
}
