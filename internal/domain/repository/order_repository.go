package repository

import "github.com/lvaldez/bookkeeper-api/internal/domain/entity"

// OrderFilter filtros opcionales para listar órdenes.
type OrderFilter struct {
	Status string // OPEN | CLOSED | "" (todas)
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	Update(order *entity.Order) error
	Delete(id string) error
	GetByID(id string) (*entity.Order, error)
	ListByBusiness(businessAccountID string, filter OrderFilter, limit, offset int) ([]*entity.Order, error)

	CreateItem(item *entity.OrderItem) error
	UpdateItem(item *entity.OrderItem) error
	DeleteItem(id string) error
	DeleteItemsByOrder(orderID string) error
	GetItems(orderID string) ([]*entity.OrderItem, error)
	// GetItemByStock devuelve la línea de la orden que referencia el stock,
	// o nil si no existe (a lo sumo hay una: invariante de consolidación).
	GetItemByStock(orderID, stockID string) (*entity.OrderItem, error)
}
