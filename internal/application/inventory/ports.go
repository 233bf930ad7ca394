package inventory

import (
	"context"

	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios de inventario atados a esa tx. Garantiza que la creación de
// un Stock y su fila Sold emparejada sean una sola unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		soldRepo repository.SoldRepository,
	) error) error
}
