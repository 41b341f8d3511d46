package checkout

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-caja/internal/application/dto"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
)

// SaleQueryUseCase lecturas de ventas para las vistas de caja y back-office.
type SaleQueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewSaleQueryUseCase construye el caso de uso.
func NewSaleQueryUseCase(saleRepo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{saleRepo: saleRepo}
}

// GetByID carga una venta con ítems y pagos.
func (uc *SaleQueryUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(s), nil
}

// List lista ventas con filtro de estado, rango de fechas y paginación.
func (uc *SaleQueryUseCase) List(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !validStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	filter := repository.SaleFilter{
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.From != "" {
		from, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		// hasta el final del día indicado
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func validStatus(status string) bool {
	switch status {
	case entity.SaleStatusPending, entity.SaleStatusOrdered, entity.SaleStatusCompleted,
		entity.SaleStatusCanceled, entity.SaleStatusAnnulled:
		return true
	}
	return false
}
