package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	SafetyStock int             `json:"safety_stock"`
}

// UpdateProductRequest body para PUT /api/products/:code. Campos nil no se modifican; Cost y Stock no se editan aquí.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SafetyStock *int             `json:"safety_stock,omitempty"`
}

// ReceiveStockRequest body para POST /api/products/:code/receive (compra / recepción).
type ReceiveStockRequest struct {
	Qty      int             `json:"qty"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Price       Money     `json:"price"`
	Cost        Money     `json:"cost"`
	Stock       int       `json:"stock"`
	SafetyStock int       `json:"safety_stock"`
	LowStock    bool      `json:"low_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
