package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, business_account_id, customer_id, order_type, description, custom_cost, status, created_at, updated_at`

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.BusinessAccountID, order.CustomerID, order.OrderType,
		order.Description, order.CustomCost, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update actualiza cliente, descripción, costo acordado y estado.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders
		SET customer_id = $2, description = $3, custom_cost = $4, status = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.Description, order.CustomCost,
		order.Status, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// Delete borra la cabecera de la orden.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// GetByID obtiene la orden; nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.BusinessAccountID, &o.CustomerID, &o.OrderType,
		&o.Description, &o.CustomCost, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListByBusiness lista las órdenes de la cuenta con filtro opcional por estado.
func (r *OrderRepo) ListByBusiness(businessAccountID string, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE business_account_id = $1
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, businessAccountID, filter.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.BusinessAccountID, &o.CustomerID, &o.OrderType,
			&o.Description, &o.CustomCost, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// CreateItem persiste una línea de la orden. La constraint única
// (order_id, stock_id) respalda la invariante de consolidación.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, stock_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.StockID, item.Quantity, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order already has a row for this stock: %w", err)
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// UpdateItem actualiza la cantidad de una línea.
func (r *OrderRepo) UpdateItem(item *entity.OrderItem) error {
	query := `UPDATE order_items SET quantity = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.Quantity, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	return nil
}

// DeleteItem borra una línea.
func (r *OrderRepo) DeleteItem(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

// DeleteItemsByOrder borra todas las líneas de la orden.
func (r *OrderRepo) DeleteItemsByOrder(orderID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

// GetItems lista las líneas de la orden en orden de inserción.
func (r *OrderRepo) GetItems(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, stock_id, quantity, created_at, updated_at
		FROM order_items WHERE order_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.StockID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// GetItemByStock devuelve la línea que referencia el stock, o nil.
func (r *OrderRepo) GetItemByStock(orderID, stockID string) (*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, stock_id, quantity, created_at, updated_at
		FROM order_items WHERE order_id = $1 AND stock_id = $2`
	var it entity.OrderItem
	err := r.q.QueryRow(context.Background(), query, orderID, stockID).Scan(
		&it.ID, &it.OrderID, &it.StockID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order item by stock: %w", err)
	}
	return &it, nil
}
