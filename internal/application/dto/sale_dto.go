package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito al crear la venta.
type SaleLineRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

// PaymentRequest un pago a registrar sobre la venta.
type PaymentRequest struct {
	Method string `json:"method"` // cash, card, qr, transfer
	Amount int64  `json:"amount"` // guaraníes
}

// CreateSaleRequest crea una venta desde el carrito de la caja.
// RUC en blanco se rechaza; el literal "Sin RUC" cobra a consumidor final.
type CreateSaleRequest struct {
	Lines        []SaleLineRequest `json:"lines"`
	Payments     []PaymentRequest  `json:"payments"`
	RUC          string            `json:"ruc"`
	CustomerName string            `json:"customer_name"`
	Mode         string            `json:"mode"` // pos, pedido
}

// CompletePaymentRequest completa una venta pendiente o encargada.
type CompletePaymentRequest struct {
	Payments     []PaymentRequest `json:"payments"`
	RUC          string           `json:"ruc,omitempty"`
	CustomerName string           `json:"customer_name,omitempty"`
}

// SaleItemResponse una línea de la venta.
type SaleItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	IVARate    int             `json:"iva_rate"`
	IVAAmount  decimal.Decimal `json:"iva_amount"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// PaymentResponse un pago registrado.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
}

// SaleResponse venta completa con ítems y pagos.
type SaleResponse struct {
	ID           string             `json:"id"`
	Number       int64              `json:"number"`
	RUC          string             `json:"ruc"`
	CustomerName string             `json:"customer_name"`
	Items        []SaleItemResponse `json:"items"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	TotalPaid    decimal.Decimal    `json:"total_paid"`
	Balance      decimal.Decimal    `json:"balance"`
	Change       decimal.Decimal    `json:"change"`
	Payments     []PaymentResponse  `json:"payments"`
	Status       string             `json:"status"`
	Stage        string             `json:"stage"`
	UserID       string             `json:"user_id"`
	Mode         string             `json:"mode"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleListRequest filtros del listado.
type SaleListRequest struct {
	Status string `query:"status"`
	From   string `query:"from"` // YYYY-MM-DD
	To     string `query:"to"`   // YYYY-MM-DD
	PageRequest
}
