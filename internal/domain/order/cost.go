// Package order implementa la aritmética pura de órdenes: costo y
// descripción legible (servicios de dominio, sin estado).
package order

import "github.com/shopspring/decimal"

// Line línea valuada de una orden FROM_LIST: cantidad pedida y precio
// unitario actual del stock referenciado.
type Line struct {
	Product  string
	Unit     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Subtotal de la línea: round(quantity * price, 2).
func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.Price).Round(2)
}

// Cost costo de una orden FROM_LIST: cada subtotal se redondea a 2 decimales
// de forma independiente, luego la suma se redondea otra vez a 2 decimales.
func Cost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}
