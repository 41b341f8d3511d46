package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pos-caja/internal/application/dto"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
	"github.com/tu-usuario/pos-caja/internal/infrastructure/set"
)

// Fuentes de resolución de un RUC.
const (
	MatchSourceLocal    = "local"
	MatchSourceRegistro = "registro"
	MatchSourceFallback = "fallback"
)

// CustomerUseCase casos de uso de clientes: CRUD y resolución por RUC.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	registry set.RUCLookup // puede ser nil (sin acceso al registro nacional)
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, registry set.RUCLookup) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, registry: registry}
}

// Create crea un cliente.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.RUC == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByRUC(in.RUC)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		RUC:       in.RUC,
		Name:      in.Name,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes con paginación.
func (uc *CustomerUseCase) List(limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update edita un cliente.
func (uc *CustomerUseCase) Update(id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Active != nil {
		customer.Active = *in.Active
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// ResolveByRUC resuelve un RUC a una identidad de cliente: primero el
// registro local, después el registro nacional (persistiendo el hallazgo a
// mejor esfuerzo) y como último recurso el consumidor final. Una falla del
// registro externo degrada al respaldo, nunca corta el flujo de cobro.
func (uc *CustomerUseCase) ResolveByRUC(ctx context.Context, ruc string) []dto.CustomerMatch {
	if ruc != "" {
		if local, err := uc.repo.GetByRUC(ruc); err == nil && local != nil {
			return []dto.CustomerMatch{{
				Doc:    docFromRUC(local.RUC),
				RUC:    local.RUC,
				Name:   local.Name,
				Active: local.Active,
				Source: MatchSourceLocal,
			}}
		}
		if uc.registry != nil {
			if match, err := uc.registry.LookupRUC(ctx, ruc); err == nil && match != nil {
				uc.persistMatch(match)
				return []dto.CustomerMatch{{
					Doc:    match.Doc,
					RUC:    match.RUC,
					Name:   match.Name,
					Active: match.Active,
					Source: MatchSourceRegistro,
				}}
			}
		}
	}
	fallback := entity.ConsumidorFinal()
	return []dto.CustomerMatch{{
		Doc:    docFromRUC(fallback.RUC),
		RUC:    fallback.RUC,
		Name:   fallback.Name,
		Active: true,
		Source: MatchSourceFallback,
	}}
}

// ResolveName devuelve el nombre para un RUC resuelto de verdad (local o
// registro); el respaldo no cuenta para no sustituir en silencio.
func (uc *CustomerUseCase) ResolveName(ctx context.Context, ruc string) (string, bool) {
	matches := uc.ResolveByRUC(ctx, ruc)
	if len(matches) == 0 || matches[0].Source == MatchSourceFallback {
		return "", false
	}
	return matches[0].Name, true
}

// persistMatch cachea en el registro local lo resuelto afuera. Es a mejor
// esfuerzo: un duplicado por carrera con otra terminal, o cualquier otra
// falla de persistencia, no corta la resolución.
func (uc *CustomerUseCase) persistMatch(match *set.RUCMatch) {
	now := time.Now()
	_ = uc.repo.Create(&entity.Customer{
		ID:        uuid.New().String(),
		RUC:       match.RUC,
		Name:      match.Name,
		Active:    match.Active,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func docFromRUC(ruc string) string {
	for i := 0; i < len(ruc); i++ {
		if ruc[i] == '-' {
			return ruc[:i]
		}
	}
	return ruc
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:     c.ID,
		RUC:    c.RUC,
		Name:   c.Name,
		Phone:  c.Phone,
		Active: c.Active,
	}
}
