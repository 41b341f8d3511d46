package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/cart"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
)

// Máquina de estados de la venta. Transiciones:
//
//	(creación)  -> pending    sin pagos
//	            -> ordered    con pago parcial
//	            -> completed  con pago total (cobro directo en caja)
//	pending/ordered --ApplyPayments--> completed (todo o nada)
//	pending/ordered --Cancel--------> canceled   (terminal)
//	completed       --Annul---------> annulled   (terminal)
//
// canceled y annulled no tienen transiciones de salida.

// ItemsFromCart convierte las líneas del carrito en el snapshot inmutable de
// la venta. A partir de acá los ítems quedan desacoplados del carrito vivo.
func ItemsFromCart(saleID string, lines []cart.Line) []entity.SaleItem {
	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, entity.SaleItem{
			ID:         uuid.New().String(),
			SaleID:     saleID,
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			IVARate:    l.IVARate,
			IVAAmount:  l.IVAAmount,
			TotalPrice: l.TotalPrice,
		})
	}
	return items
}

// New crea una venta desde el snapshot de ítems y los pagos iniciales.
// Exige carrito no vacío y un RUC: en blanco se rechaza; el literal
// explícito "Sin RUC" mapea al consumidor final, nunca en silencio.
func New(items []entity.SaleItem, payments []entity.PaymentEntry, ruc, customerName, userID, mode string, now time.Time) (*entity.Sale, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	switch ruc {
	case "":
		return nil, domain.ErrInvalidInput
	case entity.SinRUCLiteral:
		ruc = entity.ConsumidorFinalRUC
		customerName = entity.ConsumidorFinalName
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	total = total.Round(0)

	s := &entity.Sale{
		ID:           uuid.New().String(),
		RUC:          ruc,
		CustomerName: customerName,
		Items:        items,
		TotalAmount:  total,
		Payments:     payments,
		Status:       entity.SaleStatusPending,
		Stage:        entity.SaleStageProcessed,
		UserID:       userID,
		Mode:         mode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range s.Items {
		s.Items[i].SaleID = s.ID
	}
	for i := range s.Payments {
		s.Payments[i].SaleID = s.ID
	}

	paid := s.TotalPaid()
	switch {
	case paid.GreaterThanOrEqual(total):
		s.Status = entity.SaleStatusCompleted
		s.Stage = entity.SaleStageDelivered
	case paid.IsPositive():
		s.Status = entity.SaleStatusOrdered
	}
	return s, nil
}

// ApplyPayments completa una venta pendiente o encargada: agrega los nuevos
// pagos y la pasa a completed/delivered. Es todo o nada: si lo acumulado no
// cubre el total retorna ErrInsufficientPayment sin mutar la venta.
func ApplyPayments(s *entity.Sale, newPayments []entity.PaymentEntry, now time.Time) error {
	if s.Status != entity.SaleStatusPending && s.Status != entity.SaleStatusOrdered {
		return domain.ErrInvalidTransition
	}
	total := s.TotalPaid()
	for _, p := range newPayments {
		total = total.Add(p.Amount)
	}
	if total.LessThan(s.TotalAmount) {
		return domain.ErrInsufficientPayment
	}
	for i := range newPayments {
		newPayments[i].SaleID = s.ID
	}
	s.Payments = append(s.Payments, newPayments...)
	s.Status = entity.SaleStatusCompleted
	s.Stage = entity.SaleStageDelivered
	s.UpdatedAt = now
	return nil
}

// Cancel anula una venta antes de completarse. Irreversible.
func Cancel(s *entity.Sale, now time.Time) error {
	if s.Status != entity.SaleStatusPending && s.Status != entity.SaleStatusOrdered {
		return domain.ErrInvalidTransition
	}
	s.Status = entity.SaleStatusCanceled
	s.UpdatedAt = now
	return nil
}

// Annul anula una venta ya completada. Irreversible; las ventas sin completar
// se cancelan, no se anulan.
func Annul(s *entity.Sale, now time.Time) error {
	if s.Status != entity.SaleStatusCompleted {
		return domain.ErrInvalidTransition
	}
	s.Status = entity.SaleStatusAnnulled
	s.UpdatedAt = now
	return nil
}
