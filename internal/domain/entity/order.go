package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de orden.
const (
	OrderTypeFromList = "FROM_LIST" // ítems tomados del inventario
	OrderTypeCustom   = "CUSTOM"    // descripción libre con precio acordado
)

// Estados de la orden. OPEN -> CLOSED, exactamente una vez.
const (
	OrderStatusOpen   = "OPEN"
	OrderStatusClosed = "CLOSED"
)

// Order orden de un cliente para una cuenta de negocio.
type Order struct {
	ID                string
	BusinessAccountID string
	CustomerID        string
	OrderType         string
	Description       string
	CustomCost        *decimal.Decimal // requerido si OrderType == CUSTOM
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanMutate reporta si la orden admite ediciones o borrado.
// Una orden CLOSED es inmutable salvo transiciones internas del sistema.
func (o *Order) CanMutate() bool {
	return o.Status == OrderStatusOpen
}

// OrderItem línea de una orden FROM_LIST. Por orden existe a lo sumo una
// fila por ítem de stock: los duplicados se consolidan sumando cantidades.
type OrderItem struct {
	ID        string
	OrderID   string
	StockID   string
	Quantity  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
