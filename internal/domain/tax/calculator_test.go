package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/tax"
)

func rule(name string, pct string, active bool) entity.BusinessAccountTax {
	return entity.BusinessAccountTax{
		ID:         "tax-" + name,
		Name:       name,
		Percentage: decimal.RequireFromString(pct),
		Active:     active,
	}
}

// TestCompute_VectorReferencia: con reglas activas [15%, 2.5%] y base 100.00
// el desglose debe ser exactamente 17.5 / 17.50 / 117.50.
func TestCompute_VectorReferencia(t *testing.T) {
	rules := []entity.BusinessAccountTax{
		rule("VAT", "15", true),
		rule("TOT", "2.5", true),
	}

	b := tax.Compute(decimal.RequireFromString("100.00"), rules)

	require.Len(t, b.Taxes, 2)
	assert.True(t, b.TaxPercentage.Equal(decimal.RequireFromString("17.5")), "tax_percentage = %s", b.TaxPercentage)
	assert.True(t, b.TaxAmount.Equal(decimal.RequireFromString("17.50")), "tax_amount = %s", b.TaxAmount)
	assert.True(t, b.TotalAmount.Equal(decimal.RequireFromString("117.50")), "total_amount = %s", b.TotalAmount)

	assert.Equal(t, "VAT", b.Taxes[0].Name)
	assert.True(t, b.Taxes[0].Amount.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, b.Taxes[1].Amount.Equal(decimal.RequireFromString("2.50")))
}

// Las reglas inactivas no se listan ni se suman.
func TestCompute_ExcluyeInactivas(t *testing.T) {
	rules := []entity.BusinessAccountTax{
		rule("VAT", "15", true),
		rule("Old levy", "10", false),
	}

	b := tax.Compute(decimal.NewFromInt(200), rules)

	require.Len(t, b.Taxes, 1)
	assert.Equal(t, "VAT", b.Taxes[0].Name)
	assert.True(t, b.TaxPercentage.Equal(decimal.NewFromInt(15)))
	assert.True(t, b.TaxAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(230)))
}

// Sin reglas activas: lista vacía, agregados en cero y total == base.
func TestCompute_SinReglas(t *testing.T) {
	base := decimal.RequireFromString("29.97")

	b := tax.Compute(base, nil)

	assert.Empty(t, b.Taxes)
	assert.True(t, b.TaxPercentage.IsZero())
	assert.True(t, b.TaxAmount.IsZero())
	assert.True(t, b.TotalAmount.Equal(base))
}

// Redondeo por regla a 2 decimales antes de agregar.
func TestCompute_RedondeoPorRegla(t *testing.T) {
	rules := []entity.BusinessAccountTax{
		rule("VAT", "15", true),
	}

	// 9.99 * 15% = 1.4985 -> 1.50
	b := tax.Compute(decimal.RequireFromString("9.99"), rules)

	assert.True(t, b.TaxAmount.Equal(decimal.RequireFromString("1.50")), "tax_amount = %s", b.TaxAmount)
	assert.True(t, b.TotalAmount.Equal(decimal.RequireFromString("11.49")))
}

// Compute es determinista y no muta las reglas de entrada.
func TestCompute_Determinista(t *testing.T) {
	rules := []entity.BusinessAccountTax{
		rule("VAT", "15", true),
		rule("TOT", "2.5", true),
	}

	b1 := tax.Compute(decimal.NewFromInt(100), rules)
	b2 := tax.Compute(decimal.NewFromInt(100), rules)

	assert.True(t, b1.TotalAmount.Equal(b2.TotalAmount))
	assert.True(t, rules[0].Percentage.Equal(decimal.NewFromInt(15)))
}
