package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockRequest body para POST /inventory/stocks.
type CreateStockRequest struct {
	Product  string          `json:"product"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// UpdateStockRequest body para PUT /inventory/stocks/:id.
// La cantidad no se edita por acá: solo la venta la muta.
type UpdateStockRequest struct {
	Product string           `json:"product,omitempty"`
	Unit    string           `json:"unit,omitempty"`
	Price   *decimal.Decimal `json:"price,omitempty"`
}

// StockResponse respuesta de un ítem de inventario.
type StockResponse struct {
	ID        string          `json:"id"`
	Product   string          `json:"product"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SoldResponse acumulador de ventas de un ítem de inventario.
type SoldResponse struct {
	ID        string          `json:"id"`
	Product   string          `json:"product"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	SalesDate time.Time       `json:"sales_date"`
}
