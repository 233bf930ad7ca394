package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden FROM_LIST en el request.
type OrderItemRequest struct {
	StockID  string          `json:"item"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateOrderFromListRequest body para POST /orders/from-list.
type CreateOrderFromListRequest struct {
	CustomerID string             `json:"customer"`
	Items      []OrderItemRequest `json:"order_items"`
}

// UpdateOrderFromListRequest body para PUT /orders/:id/from-list.
// Los ítems enviados se consolidan con los existentes (se suman cantidades).
type UpdateOrderFromListRequest struct {
	CustomerID string             `json:"customer,omitempty"`
	Items      []OrderItemRequest `json:"order_items"`
}

// CreateCustomOrderRequest body para POST /orders/custom.
type CreateCustomOrderRequest struct {
	CustomerID  string           `json:"customer"`
	Description string           `json:"description"`
	Cost        *decimal.Decimal `json:"cost"`
}

// UpdateCustomOrderRequest body para PUT /orders/:id/custom.
type UpdateCustomOrderRequest struct {
	CustomerID  string           `json:"customer,omitempty"`
	Description string           `json:"description,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
}

// OrderItemResponse línea de orden en las respuestas.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	StockID   string          `json:"item"`
	Product   string          `json:"product"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TaxLineResponse impuesto aplicado en el desglose.
type TaxLineResponse struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

// OrderResponse respuesta uniforme para órdenes de cualquier tipo.
type OrderResponse struct {
	ID            string              `json:"id"`
	OrderType     string              `json:"order_type"`
	Customer      *CustomerResponse   `json:"customer,omitempty"`
	Description   string              `json:"description"`
	Cost          decimal.Decimal     `json:"cost"`
	Taxes         []TaxLineResponse   `json:"taxes"`
	TaxPercentage decimal.Decimal     `json:"tax_percentage"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        string              `json:"status"`
	Items         []OrderItemResponse `json:"order_items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
