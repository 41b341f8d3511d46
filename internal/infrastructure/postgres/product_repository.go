package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto con sus variantes.
func (r *ProductRepo) Create(product *entity.Product) error {
	ctx := context.Background()
	query := `
		INSERT INTO products (id, category_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		product.ID, nullIfEmpty(product.CategoryID), product.Name, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	for i := range product.Variants {
		if err := r.insertVariant(ctx, &product.Variants[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID carga un producto con todas sus variantes.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	ctx := context.Background()
	query := `
		SELECT id, category_id, name, active, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	var categoryID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &categoryID, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	variants, err := r.variantsByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return &p, nil
}

// GetByVariantID resuelve producto y variante desde el id de variante.
func (r *ProductRepo) GetByVariantID(variantID string) (*entity.Product, *entity.Variant, error) {
	ctx := context.Background()
	var productID string
	err := r.q.QueryRow(ctx, `SELECT product_id FROM product_variants WHERE id = $1`, variantID).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get variant: %w", err)
	}
	product, err := r.GetByID(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return product, &product.Variants[i], nil
		}
	}
	return nil, nil, nil
}

// List lista productos con variantes y paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	ctx := context.Background()
	query := `
		SELECT id, category_id, name, active, created_at, updated_at
		FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var categoryID *string
		if err := rows.Scan(&p.ID, &categoryID, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if categoryID != nil {
			p.CategoryID = *categoryID
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		variants, err := r.variantsByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Variants = variants
	}
	return list, nil
}

// Update actualiza el producto y reemplaza el juego de variantes.
// Las variantes que salen del juego no se borran: se desactivan, porque los
// sale_items pasados las referencian.
func (r *ProductRepo) Update(product *entity.Product) error {
	ctx := context.Background()
	query := `
		UPDATE products SET category_id = $2, name = $3, active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, nullIfEmpty(product.CategoryID), product.Name, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE product_variants SET active = false WHERE product_id = $1`, product.ID)
	if err != nil {
		return fmt.Errorf("deactivate variants: %w", err)
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		upsert := `
			INSERT INTO product_variants (id, product_id, name, price, iva_rate, active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = $3, price = $4, iva_rate = $5, active = $6`
		if _, err := r.q.Exec(ctx, upsert, v.ID, v.ProductID, v.Name, v.Price, v.IVARate, v.Active); err != nil {
			return fmt.Errorf("upsert variant: %w", err)
		}
	}
	return nil
}

// Delete da de baja el producto (soft delete: las ventas pasadas lo referencian).
func (r *ProductRepo) Delete(id string) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `UPDATE products SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE product_variants SET active = false WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate variants: %w", err)
	}
	return nil
}

func (r *ProductRepo) insertVariant(ctx context.Context, v *entity.Variant) error {
	query := `
		INSERT INTO product_variants (id, product_id, name, price, iva_rate, active)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, v.ID, v.ProductID, v.Name, v.Price, v.IVARate, v.Active)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *ProductRepo) variantsByProduct(ctx context.Context, productID string) ([]entity.Variant, error) {
	query := `
		SELECT id, product_id, name, price, iva_rate, active
		FROM product_variants WHERE product_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var variants []entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.IVARate, &v.Active); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// List lista todas las categorías.
func (r *CategoryRepo) List() ([]*entity.Category, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM categories ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina una categoría.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
