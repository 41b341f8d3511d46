package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-caja/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	Status string     // vacío = todos
	From   *time.Time // fecha desde (inclusive)
	To     *time.Time // fecha hasta (exclusive)
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para Sale, sus ítems y
// sus pagos. Los pagos son append-only: nunca hay update ni delete de una
// entrada existente.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	CreatePayment(ctx context.Context, payment *entity.PaymentEntry) error
	// GetByID carga la venta con ítems y pagos.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// UpdateStatus cambia status/stage solo si el estado actual está en
	// fromStatuses (compare-and-set contra escrituras de otra terminal).
	// Devuelve false si ninguna fila coincidió.
	UpdateStatus(ctx context.Context, id string, fromStatuses []string, status, stage string, updatedAt time.Time) (bool, error)
	// UpdateCustomer corrige RUC y nombre del cliente (flujo de completar
	// una venta pendiente). Los ítems y el total nunca se tocan.
	UpdateCustomer(ctx context.Context, id, ruc, customerName string, updatedAt time.Time) error
	// NextNumber reserva el siguiente consecutivo de caja.
	NextNumber(ctx context.Context) (int64, error)
}
