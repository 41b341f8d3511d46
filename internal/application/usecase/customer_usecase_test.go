package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/infrastructure/set"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	byRUC   map[string]*entity.Customer
	created []*entity.Customer
	// createErr fuerza el error de Create (ej. duplicado por carrera).
	createErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byRUC: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byRUC[c.RUC] = c
	r.created = append(r.created, c)
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	for _, c := range r.byRUC {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByRUC(ruc string) (*entity.Customer, error) {
	return r.byRUC[ruc], nil
}

func (r *fakeCustomerRepo) List(_, _ int) ([]*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) Update(_ *entity.Customer) error           { return nil }
func (r *fakeCustomerRepo) Delete(_ string) error                     { return nil }

type fakeRegistry struct {
	match *set.RUCMatch
	err   error
	calls int
}

func (f *fakeRegistry) LookupRUC(_ context.Context, _ string) (*set.RUCMatch, error) {
	f.calls++
	return f.match, f.err
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución por RUC: local → registro → consumidor final
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveByRUC_ClienteLocalGanaSinConsultarRegistro(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.byRUC["80012345-6"] = &entity.Customer{
		ID: "c1", RUC: "80012345-6", Name: "COMERCIAL ASUNCIÓN S.A.", Active: true,
	}
	registry := &fakeRegistry{}
	uc := NewCustomerUseCase(repo, registry)

	matches := uc.ResolveByRUC(context.Background(), "80012345-6")
	require.Len(t, matches, 1)
	assert.Equal(t, MatchSourceLocal, matches[0].Source)
	assert.Equal(t, "COMERCIAL ASUNCIÓN S.A.", matches[0].Name)
	assert.Equal(t, "80012345", matches[0].Doc, "el doc es el RUC sin dígito verificador")
	assert.Equal(t, 0, registry.calls, "con hit local no se consulta el registro")
}

func TestResolveByRUC_RegistroNacionalResuelveYPersiste(t *testing.T) {
	repo := newFakeCustomerRepo()
	registry := &fakeRegistry{match: &set.RUCMatch{
		Doc: "80099887", RUC: "80099887-5", Name: "DISTRIBUIDORA ÑEMBY S.R.L.", Active: true,
	}}
	uc := NewCustomerUseCase(repo, registry)

	matches := uc.ResolveByRUC(context.Background(), "80099887-5")
	require.Len(t, matches, 1)
	assert.Equal(t, MatchSourceRegistro, matches[0].Source)
	assert.Equal(t, "DISTRIBUIDORA ÑEMBY S.R.L.", matches[0].Name)

	require.Len(t, repo.created, 1, "el hallazgo del registro se cachea localmente")
	assert.Equal(t, "80099887-5", repo.created[0].RUC)
}

func TestResolveByRUC_DuplicadoAlPersistirNoRompeLaResolucion(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.createErr = domain.ErrDuplicate // otra terminal lo cacheó primero
	registry := &fakeRegistry{match: &set.RUCMatch{
		RUC: "80099887-5", Name: "DISTRIBUIDORA ÑEMBY S.R.L.", Active: true,
	}}
	uc := NewCustomerUseCase(repo, registry)

	matches := uc.ResolveByRUC(context.Background(), "80099887-5")
	require.Len(t, matches, 1)
	assert.Equal(t, MatchSourceRegistro, matches[0].Source)
}

func TestResolveByRUC_SinHitCaeAConsumidorFinal(t *testing.T) {
	repo := newFakeCustomerRepo()
	registry := &fakeRegistry{} // (nil, nil): RUC inexistente
	uc := NewCustomerUseCase(repo, registry)

	matches := uc.ResolveByRUC(context.Background(), "99999999-9")
	require.Len(t, matches, 1)
	assert.Equal(t, MatchSourceFallback, matches[0].Source)
	assert.Equal(t, entity.ConsumidorFinalRUC, matches[0].RUC)
	assert.Equal(t, entity.ConsumidorFinalName, matches[0].Name)
}

func TestResolveByRUC_FallaDelRegistroDegradaAlRespaldo(t *testing.T) {
	repo := newFakeCustomerRepo()
	registry := &fakeRegistry{err: errors.New("timeout")}
	uc := NewCustomerUseCase(repo, registry)

	matches := uc.ResolveByRUC(context.Background(), "80012345-6")
	require.Len(t, matches, 1)
	assert.Equal(t, MatchSourceFallback, matches[0].Source,
		"una falla del registro externo nunca corta el flujo de cobro")
	assert.Empty(t, repo.created, "el respaldo no se persiste como cliente")
}

func TestResolveByRUC_SinRegistroConfigurado(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, nil)

	matches := uc.ResolveByRUC(context.Background(), "80012345-6")
	require.Len(t, matches, 1)
	assert.Equal(t, MatchSourceFallback, matches[0].Source)
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolveName (puerto del flujo de caja)
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveName_RespaldoNoCuentaComoResuelto(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, &fakeRegistry{})

	_, ok := uc.ResolveName(context.Background(), "99999999-9")
	assert.False(t, ok, "el consumidor final no debe sustituir el nombre de un RUC real")
}

func TestResolveName_HitLocalDevuelveElNombre(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.byRUC["80012345-6"] = &entity.Customer{
		ID: "c1", RUC: "80012345-6", Name: "COMERCIAL ASUNCIÓN S.A.", Active: true,
	}
	uc := NewCustomerUseCase(repo, nil)

	name, ok := uc.ResolveName(context.Background(), "80012345-6")
	require.True(t, ok)
	assert.Equal(t, "COMERCIAL ASUNCIÓN S.A.", name)
}
