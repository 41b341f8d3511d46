package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/payment"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sanitización de entrada
// ──────────────────────────────────────────────────────────────────────────────

// TestSanitize_SoloDigitos descarta todo lo que no sea dígito.
func TestSanitize_SoloDigitos(t *testing.T) {
	assert.Equal(t, "15000", payment.Sanitize("15.000"))
	assert.Equal(t, "15000", payment.Sanitize("Gs 15000"))
	assert.Equal(t, "0", payment.Sanitize("abc"))
}

// TestSanitize_CerosIzquierda quita ceros a la izquierda pero conserva un "0".
func TestSanitize_CerosIzquierda(t *testing.T) {
	assert.Equal(t, "500", payment.Sanitize("000500"))
	assert.Equal(t, "0", payment.Sanitize("0000"))
	assert.Equal(t, "0", payment.Sanitize(""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo single: teclado, vuelto y emisión
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: total 11.000, el cajero tipea 1-5-0-0-0.
func TestSingle_TecladoYVuelto(t *testing.T) {
	r := payment.NewSingle(11000)
	for _, d := range []int{1, 5, 0, 0, 0} {
		r.AppendDigit(d)
	}
	assert.Equal(t, int64(15000), r.Received())
	assert.Equal(t, int64(4000), r.Change(), "vuelto = max(0, 15000-11000)")
}

// TestSingle_SinVueltoSiFalta verifica que el vuelto nunca es negativo.
func TestSingle_SinVueltoSiFalta(t *testing.T) {
	r := payment.NewSingle(11000)
	r.SetReceived("10000")
	assert.Equal(t, int64(0), r.Change())
}

// TestSingle_SetReceivedSanitiza acepta texto libre.
func TestSingle_SetReceivedSanitiza(t *testing.T) {
	r := payment.NewSingle(5000)
	r.SetReceived("00.7x500")
	assert.Equal(t, int64(7500), r.Received())
}

// TestSingle_Backspace divide por diez (borra el último dígito).
func TestSingle_Backspace(t *testing.T) {
	r := payment.NewSingle(5000)
	r.SetReceived("1234")
	r.Backspace()
	assert.Equal(t, int64(123), r.Received())
	r.Backspace()
	r.Backspace()
	r.Backspace()
	r.Backspace() // sobre cero, se queda en cero
	assert.Equal(t, int64(0), r.Received())
}

// TestSingle_EntriesRecortaAlObjetivo verifica la segunda capa de defensa: el
// excedente tipeado por encima del objetivo es vuelto, no pago.
func TestSingle_EntriesRecortaAlObjetivo(t *testing.T) {
	r := payment.NewSingle(11000)
	r.SetReceived("15000")
	entries := r.Entries("venta-1", time.Now())
	require.Len(t, entries, 1)
	assert.Equal(t, entity.PaymentCash, entries[0].Method)
	assert.Equal(t, int64(11000), entries[0].Amount.IntPart())
}

// TestSingle_EntriesVaciasSinMonto no emite entrada con recibido cero.
func TestSingle_EntriesVaciasSinMonto(t *testing.T) {
	r := payment.NewSingle(11000)
	assert.Empty(t, r.Entries("venta-1", time.Now()))
}

// TestSingle_MedioSeleccionado emite con el medio enfocado.
func TestSingle_MedioSeleccionado(t *testing.T) {
	r := payment.NewSingle(8000)
	r.Focus(entity.PaymentQR)
	r.SetReceived("8000")
	entries := r.Entries("venta-1", time.Now())
	require.Len(t, entries, 1)
	assert.Equal(t, entity.PaymentQR, entries[0].Method)
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo multi: topes y saldo
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: objetivo 10.000; efectivo recibe 8-0-0-0 y luego
// QR recibe 5-0-0-0 pero queda recortado al tope 2.000.
func TestMulti_RecorteAlTope(t *testing.T) {
	r := payment.NewMulti(10000)
	r.Focus(entity.PaymentCash)
	for _, d := range []int{8, 0, 0, 0} {
		r.AppendDigit(d)
	}
	require.Equal(t, int64(8000), r.Amount(entity.PaymentCash))

	r.Focus(entity.PaymentQR)
	for _, d := range []int{5, 0, 0, 0} {
		r.AppendDigit(d)
	}
	assert.Equal(t, int64(2000), r.Amount(entity.PaymentQR),
		"5000 pedido pero tope = 10000-8000 = 2000")
	assert.Equal(t, int64(0), r.Remaining())
}

// TestMulti_InvarianteTrasCadaOperacion verifica que la suma nunca supera el
// objetivo después de cada operación individual, no solo al final.
func TestMulti_InvarianteTrasCadaOperacion(t *testing.T) {
	r := payment.NewMulti(7777)
	ops := []struct {
		method string
		digit  int
	}{
		{entity.PaymentCash, 9}, {entity.PaymentCash, 9}, {entity.PaymentCash, 9},
		{entity.PaymentCard, 5}, {entity.PaymentCard, 0}, {entity.PaymentCard, 0}, {entity.PaymentCard, 0},
		{entity.PaymentQR, 9}, {entity.PaymentQR, 9}, {entity.PaymentQR, 9}, {entity.PaymentQR, 9},
		{entity.PaymentTransfer, 1},
	}
	for _, op := range ops {
		r.Focus(op.method)
		r.AppendDigit(op.digit)
		sum := int64(0)
		for _, m := range entity.PaymentMethods {
			sum += r.Amount(m)
		}
		assert.LessOrEqual(t, sum, int64(7777),
			"la suma de medios no puede superar el objetivo tras cargar %d en %s", op.digit, op.method)
	}
}

// TestMulti_MaxAllowedExcluyeElPropio verifica que el tope de un medio no
// cuenta su propio monto.
func TestMulti_MaxAllowedExcluyeElPropio(t *testing.T) {
	r := payment.NewMulti(10000)
	r.Focus(entity.PaymentCash)
	r.AppendDigit(4) // 4
	r.AppendDigit(0) // 40
	assert.Equal(t, int64(10000), r.MaxAllowed(entity.PaymentCash))
	assert.Equal(t, int64(9960), r.MaxAllowed(entity.PaymentQR))
}

// TestMulti_NuncaHayVuelto el modo multi reporta saldo, jamás vuelto.
func TestMulti_NuncaHayVuelto(t *testing.T) {
	r := payment.NewMulti(10000)
	r.Focus(entity.PaymentCash)
	r.SetReceived("99999") // ignorado: SetReceived es de modo single
	for _, d := range []int{9, 9, 9, 9, 9} {
		r.AppendDigit(d)
	}
	assert.Equal(t, int64(0), r.Change())
	assert.Equal(t, int64(0), r.Remaining())
	assert.Equal(t, int64(10000), r.Amount(entity.PaymentCash), "recortado al objetivo")
}

// TestMulti_Backspace borra el último dígito del medio enfocado.
func TestMulti_Backspace(t *testing.T) {
	r := payment.NewMulti(10000)
	r.Focus(entity.PaymentCard)
	r.AppendDigit(7)
	r.AppendDigit(5)
	r.Backspace()
	assert.Equal(t, int64(7), r.Amount(entity.PaymentCard))
}

// TestMulti_EntriesEnOrdenDeMedios emite una entrada por medio con monto,
// en el orden fijo de la caja.
func TestMulti_EntriesEnOrdenDeMedios(t *testing.T) {
	r := payment.NewMulti(10000)
	r.Focus(entity.PaymentQR)
	for _, d := range []int{3, 0, 0, 0} {
		r.AppendDigit(d)
	}
	r.Focus(entity.PaymentCash)
	for _, d := range []int{7, 0, 0, 0} {
		r.AppendDigit(d)
	}
	entries := r.Entries("venta-1", time.Now())
	require.Len(t, entries, 2)
	assert.Equal(t, entity.PaymentCash, entries[0].Method)
	assert.Equal(t, int64(7000), entries[0].Amount.IntPart())
	assert.Equal(t, entity.PaymentQR, entries[1].Method)
	assert.Equal(t, int64(3000), entries[1].Amount.IntPart())
}

// ──────────────────────────────────────────────────────────────────────────────
// Compuerta de validación
// ──────────────────────────────────────────────────────────────────────────────

// TestValidate_PagoInsuficiente rechaza cuando lo armado no cubre el objetivo.
func TestValidate_PagoInsuficiente(t *testing.T) {
	r := payment.NewSingle(11000)
	r.SetReceived("10999")
	assert.ErrorIs(t, r.Validate(), domain.ErrInsufficientPayment)
}

// TestValidate_PagoExacto acepta el pago justo.
func TestValidate_PagoExacto(t *testing.T) {
	r := payment.NewSingle(11000)
	r.SetReceived("11000")
	assert.NoError(t, r.Validate())
}

// TestValidate_MultiCompleto acepta cuando los medios suman el objetivo.
func TestValidate_MultiCompleto(t *testing.T) {
	r := payment.NewMulti(10000)
	r.Focus(entity.PaymentCash)
	for _, d := range []int{6, 0, 0, 0} {
		r.AppendDigit(d)
	}
	r.Focus(entity.PaymentTransfer)
	for _, d := range []int{4, 0, 0, 0} {
		r.AppendDigit(d)
	}
	assert.NoError(t, r.Validate())
}

// ──────────────────────────────────────────────────────────────────────────────
// Campo de texto (RUC)
// ──────────────────────────────────────────────────────────────────────────────

// TestTextField_BackspaceQuitaCaracter el RUC se edita carácter a carácter,
// no dividiendo por diez.
func TestTextField_BackspaceQuitaCaracter(t *testing.T) {
	var f payment.TextField
	f.Append("80012345-6")
	f.Backspace()
	assert.Equal(t, "80012345-", f.String())
	f.Backspace()
	assert.Equal(t, "80012345", f.String())
}

// TestTextField_BackspaceEnVacio no hace nada sobre un campo vacío.
func TestTextField_BackspaceEnVacio(t *testing.T) {
	var f payment.TextField
	f.Backspace()
	assert.Equal(t, "", f.String())
}
