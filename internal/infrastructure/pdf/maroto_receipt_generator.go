// Package pdf implementa la generación del comprobante de pago en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: "RECIBO DE PAGO"  │  N° de pago + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre  │  Modo de pago                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Unidad | P.Unit | Importe          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lvaldez/bookkeeper-api/internal/application/payments"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 82, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ payments.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa payments.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// Generate genera el comprobante y devuelve sus bytes.
func (g *MarotoReceiptGenerator) Generate(receipt payments.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de pago", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(receipt.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(receipt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y N° de pago + fecha (der).
func headerRow(receipt payments.Receipt) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("RECIBO DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("N° "+receipt.PaymentID, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Fecha: "+receipt.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// customerRow: cliente y modo de pago.
func customerRow(receipt payments.Receipt) core.Row {
	return row.New(12).Add(
		col.New(7).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(receipt.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(5).Add(
			text.New("MODO DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(receipt.ModeOfPayment, props.Text{
				Size: 9, Align: align.Right, Top: 6,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas vendidas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Unidad", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Importe", 3, align.Right),
	)
}

// tableItemRows: una fila por instantánea vendida.
func tableItemRows(items []entity.SoldItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i := range items {
		it := items[i]
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Product,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				it.Price.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				it.Amount().StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(receipt payments.Receipt) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, isLabel bool) core.Component {
		right := 1.0
		if isLabel {
			right = 2.0
		}
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label("Impuestos:"),
			grand("TOTAL:", true),
		),
		col.New(4).Add(
			value(receipt.OrderAmount.StringFixed(2)),
			value(receipt.TaxAmount.StringFixed(2)),
			grand(receipt.TotalAmount.StringFixed(2), false),
		),
	)
}
