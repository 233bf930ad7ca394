// Package tax implementa el cálculo de impuestos de una cuenta de negocio
// (servicio de dominio, función pura sin estado).
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Line impuesto aplicado sobre el monto base: nombre, porcentaje y monto.
type Line struct {
	Name       string
	Percentage decimal.Decimal
	Amount     decimal.Decimal // round(base * percentage / 100, 2)
}

// Breakdown desglose completo de impuestos sobre un monto base.
type Breakdown struct {
	Taxes         []Line
	TaxPercentage decimal.Decimal // suma de porcentajes, 2 decimales
	TaxAmount     decimal.Decimal // suma de montos por regla, 2 decimales
	TotalAmount   decimal.Decimal // round(base + TaxAmount, 2)
}

// Compute aplica las reglas de impuesto activas de la cuenta sobre el monto
// base. Las reglas inactivas se excluyen por completo (ni listadas ni
// sumadas). Sin reglas activas: lista vacía, porcentaje y monto cero,
// TotalAmount == base.
func Compute(base decimal.Decimal, rules []entity.BusinessAccountTax) Breakdown {
	b := Breakdown{
		Taxes:         []Line{},
		TaxPercentage: decimal.Zero,
		TaxAmount:     decimal.Zero,
	}
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		amount := base.Mul(rule.Percentage).Div(hundred).Round(2)
		b.Taxes = append(b.Taxes, Line{
			Name:       rule.Name,
			Percentage: rule.Percentage,
			Amount:     amount,
		})
		b.TaxPercentage = b.TaxPercentage.Add(rule.Percentage)
		b.TaxAmount = b.TaxAmount.Add(amount)
	}
	b.TaxPercentage = b.TaxPercentage.Round(2)
	b.TaxAmount = b.TaxAmount.Round(2)
	b.TotalAmount = base.Add(b.TaxAmount).Round(2)
	return b
}
