// seed genera un script SQL para poblar el inventario de una cuenta a partir
// de un catálogo CSV exportado (product;unit;quantity;price). Los exports de
// planillas viejas suelen venir en ISO-8859-1, así que el archivo se
// decodifica a UTF-8 antes de parsear.
//
// Uso: go run ./cmd/seed <business_account_id> [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: migrations/002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed <business_account_id> [catalogo.csv]")
		os.Exit(1)
	}
	businessID := os.Args[1]
	csvPath := "catalogo.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "leer CSV: %v\n", err)
		os.Exit(1)
	}

	type item struct {
		product  string
		unit     string
		quantity decimal.Decimal
		price    decimal.Decimal
	}
	var items []item
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "product") {
			continue // cabecera
		}
		if len(rec) < 4 {
			fmt.Fprintf(os.Stderr, "fila %d: se esperan 4 columnas\n", i+1)
			os.Exit(1)
		}
		product := strings.TrimSpace(rec[0])
		unit := strings.TrimSpace(rec[1])
		if product == "" {
			continue
		}
		if !entity.IsValidUnit(unit) {
			fmt.Fprintf(os.Stderr, "fila %d: unidad desconocida %q\n", i+1, unit)
			os.Exit(1)
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil || quantity.IsNegative() {
			fmt.Fprintf(os.Stderr, "fila %d: cantidad inválida %q\n", i+1, rec[2])
			os.Exit(1)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil || price.IsNegative() {
			fmt.Fprintf(os.Stderr, "fila %d: precio inválido %q\n", i+1, rec[3])
			os.Exit(1)
		}
		items = append(items, item{product: product, unit: unit, quantity: quantity, price: price})
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Catálogo inicial de inventario para la cuenta %s\n", businessID)
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))
	for _, it := range items {
		stockID := uuid.New().String()
		fmt.Fprintf(out,
			"INSERT INTO stocks (id, business_account_id, product, unit, quantity, price, created_at, updated_at)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %s, %s, now(), now());\n",
			stockID, businessID, escapeSQL(it.product), it.unit,
			it.quantity.String(), it.price.String(),
		)
		// Cada stock nace con su acumulador de ventas en cero.
		fmt.Fprintf(out,
			"INSERT INTO solds (id, stock_id, quantity, sales_date)\n"+
				"VALUES ('%s', '%s', 0, now());\n\n",
			uuid.New().String(), stockID,
		)
	}

	fmt.Printf("Generado %s: %d productos\n", outPath, len(items))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
