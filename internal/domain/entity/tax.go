package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessAccountTax regla de impuesto configurada por el comerciante.
// Solo las reglas con Active == true participan en el cálculo.
type BusinessAccountTax struct {
	ID                string
	BusinessAccountID string
	Name              string
	Percentage        decimal.Decimal // porcentaje con 2 decimales, ej. 15.00
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
