package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory-billing/apperrors"
	"inventory-billing/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *PgStore) InsertBill(ctx context.Context, bill *models.Bill) error {
	query := `
		INSERT INTO bills (total, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return s.db.QueryRow(ctx, query, bill.Total, bill.CreatedBy).Scan(&bill.ID, &bill.CreatedAt)
}

// InsertBillItems writes all items in a single multi-row INSERT and fills in
// their server-assigned ids.
func (s *PgStore) InsertBillItems(ctx context.Context, items []models.BillItem) error {
	if len(items) == 0 {
		return nil
	}

	values := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*6)
	for i, item := range items {
		base := i * 6
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, item.BillID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.Subtotal)
	}

	query := `INSERT INTO bill_items (bill_id, product_id, product_name, quantity, price, subtotal) VALUES ` +
		strings.Join(values, ", ") + ` RETURNING id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i < len(items) {
			if err := rows.Scan(&items[i].ID); err != nil {
				return err
			}
		}
		i++
	}
	return rows.Err()
}

func (s *PgStore) GetBill(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	query := `SELECT id, total, created_by, created_at FROM bills WHERE id = $1`

	var b models.Bill
	err := s.db.QueryRow(ctx, query, id).Scan(&b.ID, &b.Total, &b.CreatedBy, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("Bill")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PgStore) ListBillItems(ctx context.Context, billID uuid.UUID) ([]models.BillItem, error) {
	query := `
		SELECT id, bill_id, product_id, product_name, quantity, price, subtotal
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY product_name ASC, id ASC
	`

	rows, err := s.db.Query(ctx, query, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.BillItem{}
	for rows.Next() {
		var item models.BillItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
