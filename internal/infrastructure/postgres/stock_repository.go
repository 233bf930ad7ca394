package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, business_account_id, product, unit, quantity, price, created_at, updated_at`

// Create persiste un ítem de inventario.
func (r *StockRepo) Create(stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.BusinessAccountID, stock.Product, stock.Unit,
		stock.Quantity, stock.Price, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem de inventario; nil si no existe.
func (r *StockRepo) GetByID(id string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE) para
// serializar ventas concurrentes sobre el mismo stock.
func (r *StockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// ListByBusiness lista el inventario de una cuenta.
func (r *StockRepo) ListByBusiness(businessAccountID string, limit, offset int) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks WHERE business_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessAccountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var out []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(
			&s.ID, &s.BusinessAccountID, &s.Product, &s.Unit,
			&s.Quantity, &s.Price, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Update actualiza producto, unidad, cantidad y precio.
func (r *StockRepo) Update(stock *entity.Stock) error {
	query := `
		UPDATE stocks
		SET product = $2, unit = $3, quantity = $4, price = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.Product, stock.Unit, stock.Quantity, stock.Price, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// Delete borra el ítem y su acumulador Sold (cascade en el schema).
func (r *StockRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

func (r *StockRepo) scanOne(query string, args ...any) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.BusinessAccountID, &s.Product, &s.Unit,
		&s.Quantity, &s.Price, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}
