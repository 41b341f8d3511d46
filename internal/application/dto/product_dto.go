package dto

import "github.com/shopspring/decimal"

// VariantRequest presentación de un producto.
type VariantRequest struct {
	Name    string          `json:"name"` // "normal" si es la única
	Price   decimal.Decimal `json:"price"`
	IVARate int             `json:"iva_rate"` // 0, 5 o 10
}

// CreateProductRequest alta de producto con sus variantes.
type CreateProductRequest struct {
	Name       string           `json:"name"`
	CategoryID string           `json:"category_id"`
	Variants   []VariantRequest `json:"variants"`
}

// UpdateProductRequest edición parcial de producto.
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	CategoryID *string          `json:"category_id"`
	Active     *bool            `json:"active"`
	Variants   []VariantRequest `json:"variants"` // si viene, reemplaza las variantes
}

// VariantResponse presentación en respuestas.
type VariantResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	IVARate int             `json:"iva_rate"`
	Active  bool            `json:"active"`
}

// ProductResponse producto con variantes.
type ProductResponse struct {
	ID         string            `json:"id"`
	CategoryID string            `json:"category_id,omitempty"`
	Name       string            `json:"name"`
	Active     bool              `json:"active"`
	Variants   []VariantResponse `json:"variants"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CategoryResponse categoría del catálogo.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
