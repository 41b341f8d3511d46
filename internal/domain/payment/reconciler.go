package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
)

// Mode es el modo de cobro de la caja.
type Mode string

const (
	// ModeSingle cobra con un único medio de pago y calcula vuelto.
	ModeSingle Mode = "single"
	// ModeMulti reparte el cobro entre varios medios; nunca hay vuelto,
	// solo saldo restante por cobrar.
	ModeMulti Mode = "multi"
)

// Reconciler modela la entrada de pagos del teclado de caja contra un monto
// objetivo: el total de la venta, o el saldo cuando se completa una venta
// pendiente/encargada. Los montos se manejan en guaraníes enteros.
//
// Invariante del modo multi: la suma de los montos cargados nunca supera el
// objetivo, después de cada operación individual y no solo al final.
type Reconciler struct {
	mode    Mode
	target  int64
	focused string           // medio que recibe los dígitos del teclado
	single  int64            // monto recibido en modo single
	amounts map[string]int64 // monto por medio en modo multi
}

// NewSingle crea un reconciliador de cobro simple contra target.
// El medio enfocado inicia en efectivo.
func NewSingle(target int64) *Reconciler {
	return &Reconciler{
		mode:    ModeSingle,
		target:  target,
		focused: entity.PaymentCash,
		amounts: map[string]int64{},
	}
}

// NewMulti crea un reconciliador multi-medio contra target.
func NewMulti(target int64) *Reconciler {
	return &Reconciler{
		mode:    ModeMulti,
		target:  target,
		focused: entity.PaymentCash,
		amounts: map[string]int64{},
	}
}

// Mode devuelve el modo de cobro.
func (r *Reconciler) Mode() Mode { return r.mode }

// Target devuelve el monto objetivo.
func (r *Reconciler) Target() int64 { return r.target }

// Focus cambia el campo que recibe la entrada del teclado.
// Ignora medios desconocidos.
func (r *Reconciler) Focus(method string) {
	if entity.IsValidPaymentMethod(method) {
		r.focused = method
	}
}

// Focused devuelve el medio enfocado.
func (r *Reconciler) Focused() string { return r.focused }

// Received devuelve el monto recibido (modo single).
func (r *Reconciler) Received() int64 { return r.single }

// Amount devuelve el monto cargado para un medio (modo multi).
func (r *Reconciler) Amount(method string) int64 { return r.amounts[method] }

// Sanitize normaliza la entrada de texto de un monto: solo dígitos y sin
// ceros a la izquierda, conservando un "0" si no queda nada.
func Sanitize(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	// quitar ceros a la izquierda
	i := 0
	for i < len(digits)-1 && digits[i] == '0' {
		i++
	}
	digits = digits[i:]
	if len(digits) == 0 {
		return "0"
	}
	return string(digits)
}

// SetReceived fija el monto recibido desde texto libre (modo single).
func (r *Reconciler) SetReceived(raw string) {
	if r.mode != ModeSingle {
		return
	}
	r.single = parseAmount(Sanitize(raw))
}

func parseAmount(s string) int64 {
	var v int64
	for i := 0; i < len(s); i++ {
		v = v*10 + int64(s[i]-'0')
	}
	return v
}

// AppendDigit agrega un dígito del teclado al campo enfocado.
// En modo multi el valor resultante se recorta a MaxAllowed: los dígitos que
// desbordan se descartan en silencio, no se rechazan con error.
func (r *Reconciler) AppendDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	if r.mode == ModeSingle {
		r.single = r.single*10 + int64(d)
		return
	}
	v := r.amounts[r.focused]*10 + int64(d)
	if max := r.MaxAllowed(r.focused); v > max {
		v = max
	}
	r.amounts[r.focused] = v
}

// Backspace borra el último dígito del campo enfocado.
func (r *Reconciler) Backspace() {
	if r.mode == ModeSingle {
		r.single /= 10
		return
	}
	r.amounts[r.focused] /= 10
}

// MaxAllowed devuelve el tope para un medio en modo multi: el objetivo menos
// lo cargado en todos los demás medios. Garantiza que la suma nunca supere el
// objetivo sin importar el orden de carga.
func (r *Reconciler) MaxAllowed(method string) int64 {
	others := int64(0)
	for m, v := range r.amounts {
		if m != method {
			others += v
		}
	}
	max := r.target - others
	if max < 0 {
		return 0
	}
	return max
}

// Change devuelve el vuelto en modo single: lo recibido por encima del
// objetivo, nunca negativo. En modo multi siempre es cero.
func (r *Reconciler) Change() int64 {
	if r.mode != ModeSingle {
		return 0
	}
	if c := r.single - r.target; c > 0 {
		return c
	}
	return 0
}

// Remaining devuelve el saldo por cobrar en modo multi, nunca negativo.
func (r *Reconciler) Remaining() int64 {
	sum := int64(0)
	for _, v := range r.amounts {
		sum += v
	}
	if rem := r.target - sum; rem > 0 {
		return rem
	}
	return 0
}

// Entries arma la lista de pagos a registrar sobre la venta.
// Modo single: una entrada por min(recibido, objetivo) si hay monto; el
// excedente tipeado es vuelto, no pago. Modo multi: una entrada por cada
// medio con monto > 0, re-recortada al emitir contra lo ya emitido
// (defensa ante estado viejo).
func (r *Reconciler) Entries(saleID string, now time.Time) []entity.PaymentEntry {
	var entries []entity.PaymentEntry
	if r.mode == ModeSingle {
		amount := r.single
		if amount > r.target {
			amount = r.target
		}
		if amount <= 0 {
			return nil
		}
		return []entity.PaymentEntry{{
			ID:     uuid.New().String(),
			SaleID: saleID,
			Method: r.focused,
			Amount: decimal.NewFromInt(amount),
			PaidAt: now,
		}}
	}
	emitted := int64(0)
	for _, m := range entity.PaymentMethods {
		v := r.amounts[m]
		if v <= 0 {
			continue
		}
		if max := r.target - emitted; v > max {
			v = max
		}
		if v <= 0 {
			continue
		}
		emitted += v
		entries = append(entries, entity.PaymentEntry{
			ID:     uuid.New().String(),
			SaleID: saleID,
			Method: m,
			Amount: decimal.NewFromInt(v),
			PaidAt: now,
		})
	}
	return entries
}

// Validate es la compuerta previa a finalizar: la suma de los pagos armados
// debe cubrir el objetivo, si no retorna ErrInsufficientPayment y no se debe
// mutar ningún estado de la venta.
func (r *Reconciler) Validate() error {
	sum := int64(0)
	for _, e := range r.Entries("", time.Time{}) {
		sum += e.Amount.IntPart()
	}
	if sum < r.target {
		return domain.ErrInsufficientPayment
	}
	return nil
}

// TextField modela un campo de texto libre editado desde el teclado de caja
// (por ejemplo el RUC): acá el borrado quita el último carácter, no divide
// por diez.
type TextField struct {
	value []rune
}

// Append agrega texto al final del campo.
func (f *TextField) Append(s string) {
	f.value = append(f.value, []rune(s)...)
}

// Backspace quita el último carácter.
func (f *TextField) Backspace() {
	if len(f.value) > 0 {
		f.value = f.value[:len(f.value)-1]
	}
}

// String devuelve el contenido del campo.
func (f *TextField) String() string { return string(f.value) }
