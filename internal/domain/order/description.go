package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Description genera el resumen legible de una orden FROM_LIST a partir de
// sus líneas: agrupa por nombre de producto, pluraliza el nombre cuando la
// cantidad es distinta de 1 y une con ", ".
// Ejemplo: "3 Apples, 4.5 Sugars, 1 Bread".
// Las órdenes CUSTOM conservan su descripción tal como la escribió el usuario.
func Description(lines []Line) string {
	type group struct {
		product  string
		quantity decimal.Decimal
	}
	var groups []group
	index := make(map[string]int)
	for _, l := range lines {
		if i, ok := index[l.Product]; ok {
			groups[i].quantity = groups[i].quantity.Add(l.Quantity)
			continue
		}
		index[l.Product] = len(groups)
		groups = append(groups, group{product: l.Product, quantity: l.Quantity})
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		name := g.product
		if !g.quantity.Equal(decimal.NewFromInt(1)) {
			name = Pluralize(name)
		}
		parts = append(parts, FormatQuantity(g.quantity)+" "+name)
	}
	return strings.Join(parts, ", ")
}

// FormatQuantity renderiza la cantidad sin ceros de relleno a la derecha:
// 3.00 -> "3", 4.50 -> "4.5", 9.99 -> "9.99".
func FormatQuantity(q decimal.Decimal) string {
	s := q.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Pluralize pluraliza un nombre de producto en inglés con reglas simples:
// -s/-x/-z/-ch/-sh -> +es; consonante+y -> -ies; resto -> +s.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
