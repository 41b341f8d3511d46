package repository

import "github.com/tu-usuario/pos-caja/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product y sus
// variantes.
type ProductRepository interface {
	Create(product *entity.Product) error
	// GetByID carga el producto con todas sus variantes.
	GetByID(id string) (*entity.Product, error)
	// GetByVariantID resuelve producto y variante desde el id de variante
	// (lo que referencia una línea de carrito).
	GetByVariantID(variantID string) (*entity.Product, *entity.Variant, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	List() ([]*entity.Category, error)
	Delete(id string) error
}
