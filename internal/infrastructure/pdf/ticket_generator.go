// Package pdf implementa la generación del ticket de venta imprimible.
//
// Layout del ticket (80mm):
//
//	┌──────────────────────────────┐
//	│  NOMBRE DEL COMERCIO         │
//	│  Ticket N° + Fecha           │
//	│  Cliente: Nombre + RUC       │
//	│  ──────────────────────────  │
//	│  Cant | Descripción | Total  │
//	│  ──────────────────────────  │
//	│  TOTAL / Pagos / Vuelto      │
//	│  Gravada 10% / IVA 10%       │
//	│  Gravada 5%  / IVA 5%        │
//	│  Exentas                     │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-caja/internal/application/checkout"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
)

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// Etiquetas de medios de pago para el ticket.
var methodLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentQR:       "QR",
	entity.PaymentTransfer: "Transferencia",
}

var _ checkout.TicketGenerator = (*TicketGenerator)(nil)

// TicketGenerator implementa checkout.TicketGenerator usando Maroto v2.
type TicketGenerator struct {
	storeName string
	storeRUC  string
}

// NewTicketGenerator construye el generador con los datos del comercio.
func NewTicketGenerator(storeName, storeRUC string) *TicketGenerator {
	return &TicketGenerator{storeName: storeName, storeRUC: storeRUC}
}

// GenerateTicket genera el PDF del ticket y devuelve sus bytes.
func (g *TicketGenerator) GenerateTicket(_ context.Context, sale *entity.Sale) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(80, 250).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		WithTitle("Ticket de venta", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(g.storeName, g.storeRUC, sale)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(itemHeaderRow())
	m.AddRows(itemRows(sale.Items)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalRows(sale)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(fiscalRows(sale.Items)...)
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("¡Gracias por su compra!", props.Text{
			Size: 8, Align: align.Center, Top: 2, Color: colorGray,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRows(storeName, storeRUC string, sale *entity.Sale) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 1,
			}),
		)),
		row.New(4).Add(col.New(12).Add(
			text.New("RUC: "+storeRUC, props.Text{
				Size: 7, Align: align.Center, Color: colorGray,
			}),
		)),
		row.New(5).Add(
			col.New(6).Add(text.New(
				fmt.Sprintf("Ticket N° %d", sale.Number),
				props.Text{Style: fontstyle.Bold, Size: 8, Top: 1},
			)),
			col.New(6).Add(text.New(
				sale.CreatedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 7, Align: align.Right, Top: 1, Color: colorGray},
			)),
		),
		row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Cliente: %s (%s)", sale.CustomerName, sale.RUC),
				props.Text{Size: 7, Top: 1}),
		)),
	}
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Top: 1,
		}))
	}
	return row.New(5).Add(
		h("Cant", 2, align.Left),
		h("Descripción", 6, align.Left),
		h("Importe", 4, align.Right),
	)
}

func itemRows(items []entity.SaleItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 7, Align: align.Left, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Name,
				props.Text{Size: 7, Align: align.Left, Top: 1},
			)),
			col.New(4).Add(text.New(
				formatGs(it.TotalPrice),
				props.Text{Size: 7, Align: align.Right, Top: 1},
			)),
		))
	}
	return rows
}

func totalRows(sale *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(6).Add(
			col.New(6).Add(text.New("TOTAL", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			})),
			col.New(6).Add(text.New("Gs "+formatGs(sale.TotalAmount), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			})),
		),
	}
	for _, p := range sale.Payments {
		label := methodLabels[p.Method]
		if label == "" {
			label = p.Method
		}
		rows = append(rows, row.New(4).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 7, Top: 1})),
			col.New(6).Add(text.New(formatGs(p.Amount), props.Text{
				Size: 7, Align: align.Right, Top: 1,
			})),
		))
	}
	change := sale.TotalPaid().Sub(sale.TotalAmount)
	if change.IsPositive() {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New("Vuelto", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			})),
			col.New(6).Add(text.New(formatGs(change), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
			})),
		))
	}
	return rows
}

// fiscalRows: desglose de IVA por tasa, retro-calculado de los ítems.
func fiscalRows(items []entity.SaleItem) []core.Row {
	gravada10, iva10 := decimal.Zero, decimal.Zero
	gravada5, iva5 := decimal.Zero, decimal.Zero
	exentas := decimal.Zero
	for _, it := range items {
		switch it.IVARate {
		case 10:
			gravada10 = gravada10.Add(it.TotalPrice)
			iva10 = iva10.Add(it.IVAAmount)
		case 5:
			gravada5 = gravada5.Add(it.TotalPrice)
			iva5 = iva5.Add(it.IVAAmount)
		default:
			exentas = exentas.Add(it.TotalPrice)
		}
	}

	fiscal := func(label string, v decimal.Decimal) core.Row {
		return row.New(4).Add(
			col.New(7).Add(text.New(label, props.Text{Size: 7, Top: 1, Color: colorGray})),
			col.New(5).Add(text.New(formatGs(v), props.Text{
				Size: 7, Align: align.Right, Top: 1, Color: colorGray,
			})),
		)
	}
	return []core.Row{
		fiscal("Gravada 10%", gravada10),
		fiscal("IVA 10%", iva10),
		fiscal("Gravada 5%", gravada5),
		fiscal("IVA 5%", iva5),
		fiscal("Exentas", exentas),
	}
}

// formatGs inserta puntos de miles en un monto en guaraníes sin decimales.
// Ej: 25000 → "25.000", 1000000 → "1.000.000"
func formatGs(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := len(s)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i, c := range []byte(s) {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		s = string(buf)
	}
	if neg {
		return "-" + s
	}
	return s
}
