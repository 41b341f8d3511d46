package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tasas de IVA válidas en Paraguay (precio con IVA incluido).
var ValidIVARates = []int{0, 5, 10}

// IsValidIVARate indica si la tasa es 0, 5 o 10.
func IsValidIVARate(rate int) bool {
	for _, r := range ValidIVARates {
		if r == rate {
			return true
		}
	}
	return false
}

// Product representa un producto del catálogo. El precio y la tasa de IVA
// viven en la variante; un producto tiene al menos una variante ("normal"
// cuando no hay presentaciones múltiples).
type Product struct {
	ID         string
	CategoryID string
	Name       string
	Active     bool
	Variants   []Variant
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Variant representa una presentación vendible de un producto.
type Variant struct {
	ID        string
	ProductID string
	Name      string          // "normal" cuando es la única presentación
	Price     decimal.Decimal // guaraníes, IVA incluido
	IVARate   int             // 0, 5 o 10
	Active    bool
}

// Category agrupa productos para el catálogo de la caja.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
