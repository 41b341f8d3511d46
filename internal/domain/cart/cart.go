package cart

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
)

// Line es una línea del carrito: una variante de producto con su cantidad
// y sus montos derivados. Hay a lo sumo una línea por variante.
type Line struct {
	ProductID  string
	VariantID  string
	Name       string
	Quantity   int64
	UnitPrice  decimal.Decimal
	IVARate    int
	IVAAmount  decimal.Decimal // derivado de TotalPrice y IVARate
	TotalPrice decimal.Decimal // UnitPrice * Quantity
}

// Cart acumula líneas en orden de inserción (orden de pantalla).
// No guarda un total global: siempre se recalcula desde las líneas.
type Cart struct {
	lines []Line
}

// New crea un carrito vacío.
func New() *Cart {
	return &Cart{}
}

// Lines devuelve las líneas en orden de inserción.
func (c *Cart) Lines() []Line {
	return c.lines
}

// IsEmpty indica si el carrito no tiene líneas.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// DisplayName resuelve el nombre a mostrar de una línea: si el producto tiene
// exactamente una variante llamada "normal" (sin distinguir mayúsculas) se usa
// el nombre del producto a secas; si no, "<producto> <variante>".
func DisplayName(p *entity.Product, v *entity.Variant) string {
	if len(p.Variants) == 1 && strings.EqualFold(p.Variants[0].Name, "normal") {
		return p.Name
	}
	return p.Name + " " + v.Name
}

// IVAAmount retro-calcula el IVA incluido en un monto bruto.
// Los precios incluyen IVA: para tasa 10 el impuesto es round(bruto/11),
// para tasa 5 es round(bruto/21) y para exentas es 0.
func IVAAmount(gross decimal.Decimal, rate int) decimal.Decimal {
	switch rate {
	case 10:
		return gross.DivRound(decimal.NewFromInt(11), 0)
	case 5:
		return gross.DivRound(decimal.NewFromInt(21), 0)
	default:
		return decimal.Zero
	}
}

// AddLine suma deltaQty a la línea de la variante (negativo descuenta).
// Si la cantidad resultante es <= 0 la línea se elimina; nunca queda una
// línea con cantidad cero. Si la línea no existe solo se crea con delta > 0.
func (c *Cart) AddLine(p *entity.Product, v *entity.Variant, deltaQty int64) {
	for i := range c.lines {
		if c.lines[i].VariantID != v.ID {
			continue
		}
		qty := c.lines[i].Quantity + deltaQty
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = qty
		c.lines[i].TotalPrice = c.lines[i].UnitPrice.Mul(decimal.NewFromInt(qty))
		c.lines[i].IVAAmount = IVAAmount(c.lines[i].TotalPrice, c.lines[i].IVARate)
		return
	}
	if deltaQty <= 0 {
		return
	}
	total := v.Price.Mul(decimal.NewFromInt(deltaQty))
	c.lines = append(c.lines, Line{
		ProductID:  p.ID,
		VariantID:  v.ID,
		Name:       DisplayName(p, v),
		Quantity:   deltaQty,
		UnitPrice:  v.Price,
		IVARate:    v.IVARate,
		IVAAmount:  IVAAmount(total, v.IVARate),
		TotalPrice: total,
	})
}

// RemoveLine elimina la línea de la variante sin importar su cantidad.
func (c *Cart) RemoveLine(variantID string) {
	for i := range c.lines {
		if c.lines[i].VariantID == variantID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total devuelve la suma de TotalPrice redondeada al guaraní.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.TotalPrice)
	}
	return total.Round(0)
}

// Totals son los acumuladores fiscales del carrito para el ticket:
// gravadas e IVA por tasa, más exentas. Cada balde se redondea por separado.
type Totals struct {
	Gravada10 decimal.Decimal // base gravada al 10% (total - IVA)
	IVA10     decimal.Decimal
	Gravada5  decimal.Decimal
	IVA5      decimal.Decimal
	Exentas   decimal.Decimal
}

// FiscalTotals recalcula los acumuladores fiscales desde las líneas.
func (c *Cart) FiscalTotals() Totals {
	var t Totals
	g10, i10 := decimal.Zero, decimal.Zero
	g5, i5 := decimal.Zero, decimal.Zero
	ex := decimal.Zero
	for _, l := range c.lines {
		switch l.IVARate {
		case 10:
			g10 = g10.Add(l.TotalPrice.Sub(l.IVAAmount))
			i10 = i10.Add(l.IVAAmount)
		case 5:
			g5 = g5.Add(l.TotalPrice.Sub(l.IVAAmount))
			i5 = i5.Add(l.IVAAmount)
		default:
			ex = ex.Add(l.TotalPrice)
		}
	}
	t.Gravada10 = g10.Round(0)
	t.IVA10 = i10.Round(0)
	t.Gravada5 = g5.Round(0)
	t.IVA5 = i5.Round(0)
	t.Exentas = ex.Round(0)
	return t
}
