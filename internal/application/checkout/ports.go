package checkout

import (
	"context"

	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
)

// TxRunner ejecuta un callback con repos atados a una transacción.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// CustomerResolver resuelve un RUC a una identidad de cliente
// (implementado por el caso de uso de clientes: local → registro → respaldo).
type CustomerResolver interface {
	ResolveName(ctx context.Context, ruc string) (name string, ok bool)
}

// TicketGenerator genera la representación imprimible del ticket de venta.
type TicketGenerator interface {
	GenerateTicket(ctx context.Context, sale *entity.Sale) ([]byte, error)
}
