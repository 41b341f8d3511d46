package sale_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/sale"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var ahora = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func items(totales ...int64) []entity.SaleItem {
	var out []entity.SaleItem
	for i, tp := range totales {
		out = append(out, entity.SaleItem{
			ID:         "item-" + string(rune('a'+i)),
			ProductID:  "prod",
			VariantID:  "var",
			Name:       "Item",
			Quantity:   1,
			UnitPrice:  decimal.NewFromInt(tp),
			IVARate:    10,
			IVAAmount:  decimal.NewFromInt(tp).DivRound(decimal.NewFromInt(11), 0),
			TotalPrice: decimal.NewFromInt(tp),
		})
	}
	return out
}

func pago(method string, amount int64) entity.PaymentEntry {
	return entity.PaymentEntry{ID: "pago-" + method, Method: method, Amount: decimal.NewFromInt(amount), PaidAt: ahora}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

// TestNew_SinPagosQuedaPendiente una venta sin pagos nace en pending.
func TestNew_SinPagosQuedaPendiente(t *testing.T) {
	s, err := sale.New(items(11000), nil, "80012345-6", "Juan Pérez", "user-1", "pos", ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, s.Status)
	assert.Equal(t, entity.SaleStageProcessed, s.Stage)
	assert.True(t, decimal.NewFromInt(11000).Equal(s.TotalAmount))
}

// TestNew_PagoParcialQuedaEncargada una venta con pago parcial nace en ordered.
func TestNew_PagoParcialQuedaEncargada(t *testing.T) {
	s, err := sale.New(items(20000), []entity.PaymentEntry{pago(entity.PaymentCash, 5000)},
		"80012345-6", "Juan Pérez", "user-1", "pedido", ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusOrdered, s.Status)
	assert.True(t, decimal.NewFromInt(15000).Equal(s.Balance()))
}

// TestNew_PagoTotalQuedaCompletada el cobro directo en caja nace completed.
func TestNew_PagoTotalQuedaCompletada(t *testing.T) {
	s, err := sale.New(items(11000), []entity.PaymentEntry{pago(entity.PaymentCash, 11000)},
		"80012345-6", "Juan Pérez", "user-1", "pos", ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, s.Status)
	assert.Equal(t, entity.SaleStageDelivered, s.Stage)
}

// TestNew_CarritoVacio rechaza crear sin ítems.
func TestNew_CarritoVacio(t *testing.T) {
	_, err := sale.New(nil, nil, "80012345-6", "Juan", "user-1", "pos", ahora)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

// TestNew_RUCEnBlancoSeRechaza un RUC vacío nunca se sustituye en silencio.
func TestNew_RUCEnBlancoSeRechaza(t *testing.T) {
	_, err := sale.New(items(11000), nil, "", "", "user-1", "pos", ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestNew_SinRUCExplicitoMapeaConsumidorFinal el literal "Sin RUC" mapea al
// consumidor final.
func TestNew_SinRUCExplicitoMapeaConsumidorFinal(t *testing.T) {
	s, err := sale.New(items(11000), nil, entity.SinRUCLiteral, "", "user-1", "pos", ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsumidorFinalRUC, s.RUC)
	assert.Equal(t, entity.ConsumidorFinalName, s.CustomerName)
}

// TestNew_TotalDesdeItems el total siempre se recalcula desde los ítems.
func TestNew_TotalDesdeItems(t *testing.T) {
	s, err := sale.New(items(11000, 4000, 2500), nil, "80012345-6", "Juan", "user-1", "pos", ahora)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(17500).Equal(s.TotalAmount))
}

// ──────────────────────────────────────────────────────────────────────────────
// Completar pago (todo o nada)
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: venta pendiente que se completa con un pago en
// efectivo igual al total.
func TestApplyPayments_PendienteACompletada(t *testing.T) {
	s, err := sale.New(items(11000), nil, "80012345-6", "Juan", "user-1", "pos", ahora)
	require.NoError(t, err)
	require.Equal(t, entity.SaleStatusPending, s.Status)

	err = sale.ApplyPayments(s, []entity.PaymentEntry{pago(entity.PaymentCash, 11000)}, ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, s.Status)
	assert.Equal(t, entity.SaleStageDelivered, s.Stage)
	assert.Len(t, s.Payments, 1)
}

// TestApplyPayments_EncargadaCompletaConSaldo los pagos previos cuentan.
func TestApplyPayments_EncargadaCompletaConSaldo(t *testing.T) {
	s, err := sale.New(items(20000), []entity.PaymentEntry{pago(entity.PaymentCash, 5000)},
		"80012345-6", "Juan", "user-1", "pedido", ahora)
	require.NoError(t, err)

	err = sale.ApplyPayments(s, []entity.PaymentEntry{pago(entity.PaymentQR, 15000)}, ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, s.Status)
	assert.Len(t, s.Payments, 2, "los pagos previos nunca se mutan, solo se agregan nuevos")
}

// TestApplyPayments_InsuficienteNoMuta la compuerta es todo o nada: si no
// cubre el total no se muta absolutamente nada.
func TestApplyPayments_InsuficienteNoMuta(t *testing.T) {
	s, err := sale.New(items(20000), []entity.PaymentEntry{pago(entity.PaymentCash, 5000)},
		"80012345-6", "Juan", "user-1", "pedido", ahora)
	require.NoError(t, err)

	err = sale.ApplyPayments(s, []entity.PaymentEntry{pago(entity.PaymentQR, 14999)}, ahora)
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.Equal(t, entity.SaleStatusOrdered, s.Status, "el estado no debe cambiar")
	assert.Len(t, s.Payments, 1, "no debe agregarse ningún pago")
}

// TestApplyPayments_SobreCompletadaFalla no se puede volver a cobrar.
func TestApplyPayments_SobreCompletadaFalla(t *testing.T) {
	s := ventaEnEstado(t, entity.SaleStatusCompleted)
	err := sale.ApplyPayments(s, []entity.PaymentEntry{pago(entity.PaymentCash, 11000)}, ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// TestCompletada_SiemprePagada toda venta completed tiene pagos >= total.
func TestCompletada_SiemprePagada(t *testing.T) {
	s, err := sale.New(items(11000), []entity.PaymentEntry{pago(entity.PaymentCash, 11000)},
		"80012345-6", "Juan", "user-1", "pos", ahora)
	require.NoError(t, err)
	require.Equal(t, entity.SaleStatusCompleted, s.Status)
	assert.True(t, s.TotalPaid().GreaterThanOrEqual(s.TotalAmount))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelar y anular
// ──────────────────────────────────────────────────────────────────────────────

// TestCancel_DesdePendienteYEncargada cancela antes de completar.
func TestCancel_DesdePendienteYEncargada(t *testing.T) {
	for _, status := range []string{entity.SaleStatusPending, entity.SaleStatusOrdered} {
		s := ventaEnEstado(t, status)
		require.NoError(t, sale.Cancel(s, ahora))
		assert.Equal(t, entity.SaleStatusCanceled, s.Status)
	}
}

// TestCancel_DesdeCompletadaFalla una venta completada se anula, no se cancela.
func TestCancel_DesdeCompletadaFalla(t *testing.T) {
	s := ventaEnEstado(t, entity.SaleStatusCompleted)
	assert.ErrorIs(t, sale.Cancel(s, ahora), domain.ErrInvalidTransition)
}

// TestAnnul_SoloDesdeCompletada la anulación solo aplica a ventas completadas.
func TestAnnul_SoloDesdeCompletada(t *testing.T) {
	s := ventaEnEstado(t, entity.SaleStatusCompleted)
	require.NoError(t, sale.Annul(s, ahora))
	assert.Equal(t, entity.SaleStatusAnnulled, s.Status)

	for _, status := range []string{entity.SaleStatusPending, entity.SaleStatusOrdered, entity.SaleStatusCanceled} {
		s := ventaEnEstado(t, status)
		assert.ErrorIs(t, sale.Annul(s, ahora), domain.ErrInvalidTransition,
			"no debe poder anularse desde %s", status)
	}
}

// TestEstadosTerminales ninguna transición saca a una venta de canceled o
// annulled.
func TestEstadosTerminales(t *testing.T) {
	for _, status := range []string{entity.SaleStatusCanceled, entity.SaleStatusAnnulled} {
		s := ventaEnEstado(t, status)
		assert.Error(t, sale.ApplyPayments(s, []entity.PaymentEntry{pago(entity.PaymentCash, 99999)}, ahora))
		assert.Error(t, sale.Cancel(s, ahora))
		assert.Error(t, sale.Annul(s, ahora))
		assert.Equal(t, status, s.Status, "el estado terminal no debe cambiar")
	}
}

// ── helper ────────────────────────────────────────────────────────────────────

func ventaEnEstado(t *testing.T, status string) *entity.Sale {
	t.Helper()
	s, err := sale.New(items(11000), nil, "80012345-6", "Juan", "user-1", "pos", ahora)
	require.NoError(t, err)
	s.Status = status
	if status == entity.SaleStatusCompleted {
		s.Payments = []entity.PaymentEntry{pago(entity.PaymentCash, 11000)}
		s.Stage = entity.SaleStageDelivered
	}
	return s
}
