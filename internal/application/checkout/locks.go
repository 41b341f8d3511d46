package checkout

import "sync"

// saleLocks serializa las mutaciones por venta dentro del proceso: un segundo
// completePayment sobre la misma venta mientras hay uno en vuelo falla rápido
// en lugar de leer una lista de pagos vieja y duplicar el cobro.
// La carrera entre terminales distintas se resuelve aparte, con el
// compare-and-set de estado en SaleRepository.UpdateStatus.
type saleLocks struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newSaleLocks() *saleLocks {
	return &saleLocks{busy: make(map[string]bool)}
}

// acquire marca la venta como ocupada. Devuelve false si ya lo estaba.
func (l *saleLocks) acquire(saleID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy[saleID] {
		return false
	}
	l.busy[saleID] = true
	return true
}

// release libera la venta.
func (l *saleLocks) release(saleID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.busy, saleID)
}
