package orders

import (
	"context"

	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// repositorio de órdenes atado a esa tx. La cabecera de la orden y sus
// líneas se persisten como una sola unidad.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error
}
