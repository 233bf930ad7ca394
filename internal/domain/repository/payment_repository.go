package repository

import "github.com/lvaldez/bookkeeper-api/internal/domain/entity"

// PaymentFilter filtros opcionales para listar pagos.
type PaymentFilter struct {
	Status        string // PENDING | COMPLETED | FAILED | ""
	ModeOfPayment string // CASH | BANK | CARD | CREDIT | ""
	OrderID       string
}

// PaymentRepository define el puerto de persistencia para Payment y sus
// instantáneas SoldItem.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	Update(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	// GetByOrderID devuelve el pago de la orden o nil (relación uno-a-uno).
	GetByOrderID(orderID string) (*entity.Payment, error)
	ListByBusiness(businessAccountID string, filter PaymentFilter, limit, offset int) ([]*entity.Payment, error)

	CreateSoldItem(item *entity.SoldItem) error
	GetSoldItems(paymentID string) ([]*entity.SoldItem, error)
}
