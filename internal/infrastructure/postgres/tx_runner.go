package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lvaldez/bookkeeper-api/internal/application/inventory"
	"github.com/lvaldez/bookkeeper-api/internal/application/orders"
	"github.com/lvaldez/bookkeeper-api/internal/application/payments"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// Ensure TxRunner implements the transaction ports of every use case.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)
var _ payments.SettlementTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de inventario (alta de Stock + Sold).
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	soldRepo repository.SoldRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockRepository(tx), NewSoldRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder inicia una transacción con el repo de órdenes (cabecera + líneas
// como unidad).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewOrderRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSettlement inicia la transacción de liquidación: inventario, órdenes,
// pagos y notificaciones atados a la misma tx. Cualquier error en el callback
// deshace todo.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	soldRepo repository.SoldRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	notificationRepo repository.NotificationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewStockRepository(tx),
		NewSoldRepository(tx),
		NewOrderRepository(tx),
		NewPaymentRepository(tx),
		NewNotificationRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
