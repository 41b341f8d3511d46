package checkout

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-caja/internal/application/dto"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
	"github.com/tu-usuario/pos-caja/internal/domain/sale"
)

// CompletePaymentUseCase completa el cobro de una venta pendiente o encargada.
//
// Serialización: un candado por venta dentro del proceso evita que dos cobros
// simultáneos lean la misma lista de pagos y dupliquen; entre terminales, el
// UPDATE condicional por estado (compare-and-set) hace que la escritura
// perdedora falle con ErrConflict en lugar de pisar a la ganadora.
type CompletePaymentUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	locks    *saleLocks
	timeout  time.Duration
}

// NewCompletePaymentUseCase construye el caso de uso.
func NewCompletePaymentUseCase(txRunner TxRunner, saleRepo repository.SaleRepository) *CompletePaymentUseCase {
	return &CompletePaymentUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		locks:    newSaleLocks(),
		timeout:  defaultTimeout,
	}
}

// Complete agrega los pagos nuevos y pasa la venta a completed/delivered.
// Todo o nada: si lo acumulado no cubre el total, nada se persiste.
func (uc *CompletePaymentUseCase) Complete(ctx context.Context, saleID string, in dto.CompletePaymentRequest) (*dto.SaleResponse, error) {
	if len(in.Payments) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, p := range in.Payments {
		if !entity.IsValidPaymentMethod(p.Method) || p.Amount < 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	if !uc.locks.acquire(saleID) {
		return nil, domain.ErrSaleBusy
	}
	defer uc.locks.release(saleID)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	s, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, mapTimeout(err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	// El objetivo del cobro es el saldo; cada entrada se recorta contra lo
	// que dejan las anteriores, igual que en el teclado de la caja.
	entries := buildEntries(s.Balance().IntPart(), in.Payments, now)
	if err := sale.ApplyPayments(s, entries, now); err != nil {
		return nil, err
	}
	if in.RUC != "" {
		s.RUC = in.RUC
		if in.RUC == entity.SinRUCLiteral {
			s.RUC = entity.ConsumidorFinalRUC
			s.CustomerName = entity.ConsumidorFinalName
		} else if in.CustomerName != "" {
			s.CustomerName = in.CustomerName
		}
	}

	err = uc.txRunner.RunSale(ctx, func(saleRepo repository.SaleRepository, _ repository.CustomerRepository) error {
		for i := range entries {
			if err := saleRepo.CreatePayment(ctx, &entries[i]); err != nil {
				return err
			}
		}
		ok, err := saleRepo.UpdateStatus(ctx, s.ID,
			[]string{entity.SaleStatusPending, entity.SaleStatusOrdered},
			entity.SaleStatusCompleted, entity.SaleStageDelivered, now)
		if err != nil {
			return err
		}
		if !ok {
			// Otra terminal movió la venta entre nuestra lectura y esta
			// escritura: rollback completo.
			return domain.ErrConflict
		}
		return saleRepo.UpdateCustomer(ctx, s.ID, s.RUC, s.CustomerName, now)
	})
	if err != nil {
		return nil, mapTimeout(err)
	}
	return toSaleResponse(s), nil
}

// CancelSaleUseCase cancela una venta antes de completarse.
type CancelSaleUseCase struct {
	saleRepo repository.SaleRepository
	timeout  time.Duration
}

// NewCancelSaleUseCase construye el caso de uso.
func NewCancelSaleUseCase(saleRepo repository.SaleRepository) *CancelSaleUseCase {
	return &CancelSaleUseCase{saleRepo: saleRepo, timeout: defaultTimeout}
}

// Cancel pasa la venta a canceled si sigue pendiente o encargada.
func (uc *CancelSaleUseCase) Cancel(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	s, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, mapTimeout(err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if err := sale.Cancel(s, now); err != nil {
		return nil, err
	}
	ok, err := uc.saleRepo.UpdateStatus(ctx, s.ID,
		[]string{entity.SaleStatusPending, entity.SaleStatusOrdered},
		entity.SaleStatusCanceled, s.Stage, now)
	if err != nil {
		return nil, mapTimeout(err)
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	return toSaleResponse(s), nil
}

// AnnulSaleUseCase anula una venta ya completada.
type AnnulSaleUseCase struct {
	saleRepo repository.SaleRepository
	timeout  time.Duration
}

// NewAnnulSaleUseCase construye el caso de uso.
func NewAnnulSaleUseCase(saleRepo repository.SaleRepository) *AnnulSaleUseCase {
	return &AnnulSaleUseCase{saleRepo: saleRepo, timeout: defaultTimeout}
}

// Annul pasa la venta a annulled si está completada.
func (uc *AnnulSaleUseCase) Annul(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	s, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, mapTimeout(err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if err := sale.Annul(s, now); err != nil {
		return nil, err
	}
	ok, err := uc.saleRepo.UpdateStatus(ctx, s.ID,
		[]string{entity.SaleStatusCompleted},
		entity.SaleStatusAnnulled, s.Stage, now)
	if err != nil {
		return nil, mapTimeout(err)
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	return toSaleResponse(s), nil
}
