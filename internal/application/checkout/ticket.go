package checkout

import (
	"context"

	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
)

// TicketUseCase genera el ticket imprimible de una venta.
type TicketUseCase struct {
	saleRepo  repository.SaleRepository
	generator TicketGenerator
}

// NewTicketUseCase construye el caso de uso.
func NewTicketUseCase(saleRepo repository.SaleRepository, generator TicketGenerator) *TicketUseCase {
	return &TicketUseCase{saleRepo: saleRepo, generator: generator}
}

// Generate devuelve los bytes del PDF del ticket.
func (uc *TicketUseCase) Generate(ctx context.Context, saleID string) ([]byte, error) {
	s, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateTicket(ctx, s)
}
