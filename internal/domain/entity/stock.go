package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa un producto en el inventario de una cuenta de negocio.
// Quantity solo se muta a través del motor de inventario (venta); nunca
// queda negativa como resultado de una venta.
type Stock struct {
	ID                string
	BusinessAccountID string
	Product           string
	Unit              string
	Quantity          decimal.Decimal
	Price             decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Sold acumulador de unidades vendidas, uno-a-uno con Stock.
// Se crea junto con el Stock (misma transacción) y solo lo incrementa la venta.
type Sold struct {
	ID        string
	StockID   string
	Quantity  decimal.Decimal
	SalesDate time.Time // última fecha de venta
}
