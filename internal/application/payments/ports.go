package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// SettlementTxRunner ejecuta la liquidación completa dentro de una sola
// transacción de BD: descuento de inventario, instantáneas SoldItem, cierre
// de la orden y recordatorio de crédito, todo o nada.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		soldRepo repository.SoldRepository,
		orderRepo repository.OrderRepository,
		paymentRepo repository.PaymentRepository,
		notificationRepo repository.NotificationRepository,
	) error) error
}

// Seller descuenta inventario dentro de la transacción del caller y devuelve
// el Stock tal como estaba al momento de la venta.
type Seller interface {
	SellInTx(
		stockRepo repository.StockRepository,
		soldRepo repository.SoldRepository,
		stockID string,
		quantity decimal.Decimal,
		now time.Time,
	) (*entity.Stock, error)
}

// OrderCloser cierra la orden dentro de la transacción del caller y calcula
// su costo vivo.
type OrderCloser interface {
	CloseInTx(orderRepo repository.OrderRepository, order *entity.Order, now time.Time) error
	Cost(order *entity.Order, items []*entity.OrderItem) (decimal.Decimal, error)
}

// ReminderIssuer emite el recordatorio de cobro de un pago a crédito dentro
// de la transacción del caller (get-or-create, idempotente).
type ReminderIssuer interface {
	PayLaterReminderInTx(
		notificationRepo repository.NotificationRepository,
		businessID, customerName, actionURL string,
		payLaterDate time.Time,
		now time.Time,
	) (*entity.Notification, error)
}

// ReceiptGenerator renderiza el comprobante PDF de un pago completado.
type ReceiptGenerator interface {
	Generate(receipt Receipt) ([]byte, error)
}

// Receipt datos ya resueltos para el comprobante.
type Receipt struct {
	PaymentID     string
	CustomerName  string
	ModeOfPayment string
	Date          time.Time
	Items         []entity.SoldItem
	OrderAmount   decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
}
