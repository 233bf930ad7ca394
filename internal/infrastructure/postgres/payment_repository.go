package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, order_id, mode_of_payment, status, pay_later_date, created_at, updated_at`

// Create persiste el pago. La constraint única sobre order_id respalda la
// relación uno-a-uno orden/pago.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.OrderID, payment.ModeOfPayment, payment.Status,
		payment.PayLaterDate, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Update actualiza modo, estado y fecha de crédito.
func (r *PaymentRepo) Update(payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET mode_of_payment = $2, status = $3, pay_later_date = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.ModeOfPayment, payment.Status, payment.PayLaterDate, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// GetByID obtiene el pago; nil si no existe.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByOrderID devuelve el pago de la orden o nil (relación uno-a-uno).
func (r *PaymentRepo) GetByOrderID(orderID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	return r.scanOne(query, orderID)
}

// ListByBusiness lista los pagos de la cuenta (vía la orden), con filtros
// opcionales por estado, modo y orden.
func (r *PaymentRepo) ListByBusiness(businessAccountID string, filter repository.PaymentFilter, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT p.id, p.order_id, p.mode_of_payment, p.status, p.pay_later_date, p.created_at, p.updated_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE o.business_account_id = $1
		  AND ($2 = '' OR p.status = $2)
		  AND ($3 = '' OR p.mode_of_payment = $3)
		  AND ($4 = '' OR p.order_id = $4)
		ORDER BY p.created_at DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		businessAccountID, filter.Status, filter.ModeOfPayment, filter.OrderID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(
			&p.ID, &p.OrderID, &p.ModeOfPayment, &p.Status,
			&p.PayLaterDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CreateSoldItem persiste la instantánea de una línea vendida.
func (r *PaymentRepo) CreateSoldItem(item *entity.SoldItem) error {
	query := `
		INSERT INTO sold_items (id, payment_id, product, unit, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PaymentID, item.Product, item.Unit, item.Quantity, item.Price,
	)
	if err != nil {
		return fmt.Errorf("insert sold item: %w", err)
	}
	return nil
}

// GetSoldItems lista las instantáneas del pago en orden de inserción.
func (r *PaymentRepo) GetSoldItems(paymentID string) ([]*entity.SoldItem, error) {
	query := `
		SELECT id, payment_id, product, unit, quantity, price
		FROM sold_items WHERE payment_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list sold items: %w", err)
	}
	defer rows.Close()

	var out []*entity.SoldItem
	for rows.Next() {
		var it entity.SoldItem
		if err := rows.Scan(&it.ID, &it.PaymentID, &it.Product, &it.Unit, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan sold item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) scanOne(query string, args ...any) (*entity.Payment, error) {
	var p entity.Payment
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.OrderID, &p.ModeOfPayment, &p.Status,
		&p.PayLaterDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}
