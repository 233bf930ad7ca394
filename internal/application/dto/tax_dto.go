package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRequest body para crear o actualizar una regla de impuesto.
type TaxRequest struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     *bool           `json:"active,omitempty"`
}

// TaxResponse respuesta de una regla de impuesto.
type TaxResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
