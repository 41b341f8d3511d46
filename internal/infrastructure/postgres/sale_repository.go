package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta. Los ítems y pagos se insertan
// aparte, dentro de la misma transacción.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, number, ruc, customer_name, total_amount, status, stage, user_id, mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Number, sale.RUC, sale.CustomerName, sale.TotalAmount,
		sale.Status, sale.Stage, sale.UserID, sale.Mode, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, variant_id, name, quantity, unit_price, iva_rate, iva_amount, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SaleID, item.ProductID, item.VariantID, item.Name,
		item.Quantity, item.UnitPrice, item.IVARate, item.IVAAmount, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale_item: %w", err)
	}
	return nil
}

// CreatePayment persiste una entrada de pago. Solo INSERT: la lista de pagos
// es append-only.
func (r *SaleRepo) CreatePayment(ctx context.Context, payment *entity.PaymentEntry) error {
	query := `
		INSERT INTO sale_payments (id, sale_id, method, amount, paid_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.SaleID, payment.Method, payment.Amount, payment.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale_payment: %w", err)
	}
	return nil
}

// GetByID carga la venta con sus ítems y pagos.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, number, ruc, customer_name, total_amount, status, stage, user_id, mode, created_at, updated_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Number, &s.RUC, &s.CustomerName, &s.TotalAmount,
		&s.Status, &s.Stage, &s.UserID, &s.Mode, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{&s}); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, []*entity.Sale{&s}); err != nil {
		return nil, err
	}
	return &s, nil
}

// List lista ventas con filtro de estado y rango de fechas, más recientes
// primero, con sus ítems y pagos cargados.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	query := `
		SELECT id, number, ruc, customer_name, total_amount, status, stage, user_id, mode, created_at, updated_at
		FROM sales WHERE 1=1`
	args := []any{}
	n := 0
	if filter.Status != "" {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		n++
		query += fmt.Sprintf(" AND created_at >= $%d", n)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		n++
		query += fmt.Sprintf(" AND created_at < $%d", n)
		args = append(args, *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.Number, &s.RUC, &s.CustomerName, &s.TotalAmount,
			&s.Status, &s.Stage, &s.UserID, &s.Mode, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus cambia status/stage solo si el estado actual está en
// fromStatuses. Es el compare-and-set que resuelve la carrera entre
// terminales: la escritura que llega tarde no encuentra fila y devuelve false.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id string, fromStatuses []string, status, stage string, updatedAt time.Time) (bool, error) {
	query := `
		UPDATE sales SET status = $2, stage = $3, updated_at = $4
		WHERE id = $1 AND status = ANY($5)`
	tag, err := r.q.Exec(ctx, query, id, status, stage, updatedAt, fromStatuses)
	if err != nil {
		return false, fmt.Errorf("update sale status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateCustomer corrige RUC y nombre. Total e ítems nunca se tocan.
func (r *SaleRepo) UpdateCustomer(ctx context.Context, id, ruc, customerName string, updatedAt time.Time) error {
	query := `
		UPDATE sales SET ruc = $2, customer_name = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, ruc, customerName, updatedAt)
	if err != nil {
		return fmt.Errorf("update sale customer: %w", err)
	}
	return nil
}

// NextNumber reserva el siguiente consecutivo de caja. La secuencia nunca
// repite aunque la transacción haga rollback (huecos aceptados).
func (r *SaleRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('sale_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return n, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	query := `
		SELECT id, sale_id, product_id, variant_id, name, quantity, unit_price, iva_rate, iva_amount, total_price
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list sale_items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(
			&it.ID, &it.SaleID, &it.ProductID, &it.VariantID, &it.Name,
			&it.Quantity, &it.UnitPrice, &it.IVARate, &it.IVAAmount, &it.TotalPrice,
		); err != nil {
			return fmt.Errorf("scan sale_item: %w", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

func (r *SaleRepo) loadPayments(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}
	query := `
		SELECT id, sale_id, method, amount, paid_at
		FROM sale_payments WHERE sale_id = ANY($1) ORDER BY paid_at, id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list sale_payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.PaymentEntry
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.PaidAt); err != nil {
			return fmt.Errorf("scan sale_payment: %w", err)
		}
		if s, ok := byID[p.SaleID]; ok {
			s.Payments = append(s.Payments, p)
		}
	}
	return rows.Err()
}
