package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

var _ repository.SoldRepository = (*SoldRepo)(nil)

// SoldRepo implementación de SoldRepository sobre PostgreSQL (usable con pool o tx).
type SoldRepo struct {
	q Querier
}

// NewSoldRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSoldRepository(q Querier) *SoldRepo {
	return &SoldRepo{q: q}
}

// Create persiste el acumulador de ventas de un stock.
func (r *SoldRepo) Create(sold *entity.Sold) error {
	query := `
		INSERT INTO solds (id, stock_id, quantity, sales_date)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		sold.ID, sold.StockID, sold.Quantity, sold.SalesDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sold accumulator already exists for stock: %w", err)
		}
		return fmt.Errorf("insert sold: %w", err)
	}
	return nil
}

// GetByStockID obtiene el acumulador de un stock; nil si no existe.
func (r *SoldRepo) GetByStockID(stockID string) (*entity.Sold, error) {
	query := `SELECT id, stock_id, quantity, sales_date FROM solds WHERE stock_id = $1`
	return r.scanOne(query, stockID)
}

// GetByStockIDForUpdate obtiene el acumulador bloqueando la fila.
func (r *SoldRepo) GetByStockIDForUpdate(stockID string) (*entity.Sold, error) {
	query := `SELECT id, stock_id, quantity, sales_date FROM solds WHERE stock_id = $1 FOR UPDATE`
	return r.scanOne(query, stockID)
}

// Update actualiza cantidad acumulada y fecha de última venta.
func (r *SoldRepo) Update(sold *entity.Sold) error {
	query := `UPDATE solds SET quantity = $2, sales_date = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, sold.ID, sold.Quantity, sold.SalesDate)
	if err != nil {
		return fmt.Errorf("update sold: %w", err)
	}
	return nil
}

// ListByBusiness lista los acumuladores del inventario de una cuenta.
func (r *SoldRepo) ListByBusiness(businessAccountID string, limit, offset int) ([]*entity.Sold, error) {
	query := `
		SELECT s.id, s.stock_id, s.quantity, s.sales_date
		FROM solds s
		JOIN stocks st ON st.id = s.stock_id
		WHERE st.business_account_id = $1
		ORDER BY s.sales_date DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessAccountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list solds: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sold
	for rows.Next() {
		var s entity.Sold
		if err := rows.Scan(&s.ID, &s.StockID, &s.Quantity, &s.SalesDate); err != nil {
			return nil, fmt.Errorf("scan sold: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SoldRepo) scanOne(query string, args ...any) (*entity.Sold, error) {
	var s entity.Sold
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.StockID, &s.Quantity, &s.SalesDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sold: %w", err)
	}
	return &s, nil
}
