package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-caja/internal/application/dto"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/cart"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
	"github.com/tu-usuario/pos-caja/internal/domain/sale"
)

// defaultTimeout tope explícito para operaciones que mutan ventas; al
// excederse la falla se reporta como ErrTimeout, distinta de un error remoto.
const defaultTimeout = 10 * time.Second

// CreateSaleUseCase crea una venta desde el carrito de la caja: arma el
// snapshot de líneas con su IVA, resuelve el cliente por RUC y determina el
// estado inicial según los pagos recibidos.
type CreateSaleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	resolver    CustomerResolver
	timeout     time.Duration
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, productRepo repository.ProductRepository, resolver CustomerResolver) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		resolver:    resolver,
		timeout:     defaultTimeout,
	}
}

// Create valida el carrito, arma la venta y la persiste con ítems y pagos en
// una sola transacción.
func (uc *CreateSaleUseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if in.RUC == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, p := range in.Payments {
		if !entity.IsValidPaymentMethod(p.Method) || p.Amount < 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	// Reconstruir el carrito desde el catálogo: precios y tasas salen de la
	// variante persistida, nunca del cliente.
	c := cart.New()
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, variant, err := uc.productRepo.GetByVariantID(line.VariantID)
		if err != nil {
			return nil, err
		}
		if product == nil || variant == nil {
			return nil, domain.ErrNotFound
		}
		c.AddLine(product, variant, line.Quantity)
	}

	customerName := in.CustomerName
	if customerName == "" && in.RUC != entity.SinRUCLiteral {
		if name, ok := uc.resolver.ResolveName(ctx, in.RUC); ok {
			customerName = name
		}
	}

	now := time.Now()
	entries := buildEntries(c.Total().IntPart(), in.Payments, now)
	s, err := sale.New(sale.ItemsFromCart("", c.Lines()), entries, in.RUC, customerName, userID, in.Mode, now)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	err = uc.txRunner.RunSale(ctx, func(saleRepo repository.SaleRepository, _ repository.CustomerRepository) error {
		number, err := saleRepo.NextNumber(ctx)
		if err != nil {
			return err
		}
		s.Number = number
		if err := saleRepo.Create(ctx, s); err != nil {
			return err
		}
		for i := range s.Items {
			if err := saleRepo.CreateItem(ctx, &s.Items[i]); err != nil {
				return err
			}
		}
		for i := range s.Payments {
			if err := saleRepo.CreatePayment(ctx, &s.Payments[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapTimeout(err)
	}
	return toSaleResponse(s), nil
}

// buildEntries convierte los pagos del request en entradas, recortando cada
// una al saldo que dejan las anteriores para que la suma jamás supere el
// objetivo (misma defensa que la emisión del teclado de caja).
func buildEntries(target int64, payments []dto.PaymentRequest, now time.Time) []entity.PaymentEntry {
	var entries []entity.PaymentEntry
	emitted := int64(0)
	for _, p := range payments {
		v := p.Amount
		if max := target - emitted; v > max {
			v = max
		}
		if v <= 0 {
			continue
		}
		emitted += v
		entries = append(entries, entity.PaymentEntry{
			ID:     uuid.New().String(),
			Method: p.Method,
			Amount: decimal.NewFromInt(v),
			PaidAt: now,
		})
	}
	return entries
}

// mapTimeout traduce el vencimiento del contexto a ErrTimeout.
func mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	return err
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:           s.ID,
		Number:       s.Number,
		RUC:          s.RUC,
		CustomerName: s.CustomerName,
		TotalAmount:  s.TotalAmount,
		TotalPaid:    s.TotalPaid(),
		Balance:      s.Balance(),
		Status:       s.Status,
		Stage:        s.Stage,
		UserID:       s.UserID,
		Mode:         s.Mode,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Items:        make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:     make([]dto.PaymentResponse, 0, len(s.Payments)),
	}
	change := s.TotalPaid().Sub(s.TotalAmount)
	if change.IsNegative() {
		change = decimal.Zero
	}
	resp.Change = change
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			IVARate:    it.IVARate,
			IVAAmount:  it.IVAAmount,
			TotalPrice: it.TotalPrice,
		})
	}
	for _, p := range s.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:     p.ID,
			Method: p.Method,
			Amount: p.Amount,
			PaidAt: p.PaidAt,
		})
	}
	return resp
}
