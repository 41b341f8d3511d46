package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una venta.
const (
	SaleStatusPending   = "pending"   // reserva sin pago registrado
	SaleStatusOrdered   = "ordered"   // pago parcial registrado, pendiente de completar
	SaleStatusCompleted = "completed" // pagada en su totalidad y entregada
	SaleStatusCanceled  = "canceled"  // anulada antes de completarse
	SaleStatusAnnulled  = "annulled"  // anulada después de completarse
)

// Etapas de entrega (eje independiente del estado de pago).
const (
	SaleStageProcessed = "processed"
	SaleStageDelivered = "delivered"
)

// Medios de pago aceptados en caja.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentQR       = "qr"
	PaymentTransfer = "transfer"
)

// PaymentMethods lista los medios de pago en el orden que los muestra la caja.
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentQR, PaymentTransfer}

// IsValidPaymentMethod indica si el método es uno de los aceptados.
func IsValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// PaymentEntry representa un pago registrado sobre una venta.
// La lista de pagos de una venta es append-only: las entradas existentes
// nunca se modifican, solo se agregan nuevas.
type PaymentEntry struct {
	ID       string
	SaleID   string
	Method   string          // cash, card, qr, transfer
	Amount   decimal.Decimal // guaraníes, sin decimales
	PaidAt   time.Time
}

// SaleItem es una línea de la venta: snapshot del carrito al momento de crear,
// desacoplado del catálogo vivo. Inmutable una vez creada la venta.
type SaleItem struct {
	ID         string
	SaleID     string
	ProductID  string
	VariantID  string
	Name       string          // nombre resuelto (producto + variante)
	Quantity   int64
	UnitPrice  decimal.Decimal // precio con IVA incluido
	IVARate    int             // 0, 5 o 10
	IVAAmount  decimal.Decimal // IVA retro-calculado de TotalPrice
	TotalPrice decimal.Decimal // UnitPrice * Quantity
}

// Sale representa una venta de caja. Items y TotalAmount son inmutables
// después de la creación; solo pueden cambiar Payments, Status, Stage,
// RUC y CustomerName (flujo de completar venta pendiente).
type Sale struct {
	ID           string
	Number       int64  // consecutivo de caja
	RUC          string // RUC del cliente ("44444401-7" para consumidor final)
	CustomerName string
	Items        []SaleItem
	TotalAmount  decimal.Decimal
	Payments     []PaymentEntry
	Status       string // pending, ordered, completed, canceled, annulled
	Stage        string // processed, delivered
	UserID       string // cajero que registró la venta
	Mode         string // "pos" o "pedido"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalPaid suma los pagos registrados.
func (s *Sale) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Balance devuelve el saldo pendiente de cobro (nunca negativo).
func (s *Sale) Balance() decimal.Decimal {
	b := s.TotalAmount.Sub(s.TotalPaid())
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// IsTerminal indica si la venta está en un estado final sin transiciones.
func (s *Sale) IsTerminal() bool {
	return s.Status == SaleStatusCanceled || s.Status == SaleStatusAnnulled
}
