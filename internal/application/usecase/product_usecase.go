package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pos-caja/internal/application/dto"
	"github.com/tu-usuario/pos-caja/internal/domain"
	"github.com/tu-usuario/pos-caja/internal/domain/entity"
	"github.com/tu-usuario/pos-caja/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo: productos, variantes y categorías.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories}
}

// Create da de alta un producto con sus variantes. Si no se indica ninguna
// variante la petición es inválida: toda venta referencia una variante.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || len(in.Variants) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	variants, err := buildVariants(product.ID, in.Variants)
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID carga un producto con sus variantes.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista el catálogo con paginación.
func (uc *ProductUseCase) List(in dto.PageRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.products.List(in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Update edita un producto. Si el request trae variantes, reemplazan el
// juego completo (las líneas de ventas pasadas no se ven afectadas: guardan
// snapshot de nombre y precio).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if len(in.Variants) > 0 {
		variants, err := buildVariants(product.ID, in.Variants)
		if err != nil {
			return nil, err
		}
		product.Variants = variants
	}
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete da de baja un producto del catálogo.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.products.Delete(id)
}

// CreateCategory da de alta una categoría.
func (uc *ProductUseCase) CreateCategory(name string) (*dto.CategoryResponse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	category := &entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categories.Create(category); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

// ListCategories lista todas las categorías.
func (uc *ProductUseCase) ListCategories() ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// DeleteCategory elimina una categoría.
func (uc *ProductUseCase) DeleteCategory(id string) error {
	return uc.categories.Delete(id)
}

func buildVariants(productID string, in []dto.VariantRequest) ([]entity.Variant, error) {
	variants := make([]entity.Variant, 0, len(in))
	for _, v := range in {
		if v.Name == "" || v.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if !entity.IsValidIVARate(v.IVARate) {
			return nil, domain.ErrInvalidInput
		}
		variants = append(variants, entity.Variant{
			ID:        uuid.New().String(),
			ProductID: productID,
			Name:      v.Name,
			Price:     v.Price,
			IVARate:   v.IVARate,
			Active:    true,
		})
	}
	return variants, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	variants := make([]dto.VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, dto.VariantResponse{
			ID:      v.ID,
			Name:    v.Name,
			Price:   v.Price,
			IVARate: v.IVARate,
			Active:  v.Active,
		})
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		Active:     p.Active,
		Variants:   variants,
	}
}
