package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain"
)

// El contrato de ventas usa camelCase: lo consume el front de captura de pedidos.

// CustomerRef identidad del cliente en un pedido. Todos los campos son opcionales.
type CustomerRef struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// SaleItemRequest línea del pedido. Los campos numéricos aceptan número o string numérico.
type SaleItemRequest struct {
	Code     string          `json:"code"`
	Name     string          `json:"name,omitempty"`
	Qty      decimal.Decimal `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	DocDate  string            `json:"docDate,omitempty"` // YYYY-MM-DD o DD/MM/YYYY (acepta año budista)
	DocNo    string            `json:"docNo,omitempty"`   // opcional; solo se intenta en el primer intento
	Channel  string            `json:"channel,omitempty"`
	Customer CustomerRef       `json:"customer"`
	Items    []SaleItemRequest `json:"items"`
}

// SaleTotalsDTO resumen monetario devuelto al crear.
type SaleTotalsDTO struct {
	Subtotal  Money `json:"subtotal"`
	VAT       Money `json:"vat"`
	Grand     Money `json:"grand"`
	TotalCogs Money `json:"totalCogs"`
	Gross     Money `json:"gross"`
}

// CreateSaleResult respuesta exitosa de POST /api/sales.
type CreateSaleResult struct {
	OK     bool          `json:"ok"`
	SaleID string        `json:"saleId"`
	DocNo  string        `json:"docNo"`
	Totals SaleTotalsDTO `json:"totals"`
}

// SaleFailure respuesta de error de ventas ({ok:false, message}).
type SaleFailure struct {
	OK       bool                  `json:"ok"`
	Code     string                `json:"code,omitempty"`
	Message  string                `json:"message"`
	Problems []domain.StockProblem `json:"problems,omitempty"`
}

// RestoreSaleRequest body para POST /api/sales/restore.
type RestoreSaleRequest struct {
	IDOrDocNo string `json:"idOrDocNo"`
	Force     bool   `json:"force,omitempty"`
}

// OKResponse respuesta mínima {ok:true}.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ChangeSaleStatusRequest body para PATCH /api/sales/:id/status.
type ChangeSaleStatusRequest struct {
	Status string `json:"status"`
}

// SaleItemResponse línea de la venta.
type SaleItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Price     Money  `json:"price"`
	Discount  Money  `json:"discount"`
	Amount    Money  `json:"amount"`
	CostEach  Money  `json:"costEach"`
	COGS      Money  `json:"cogs"`
}

// SaleResponse venta con detalle para GET /api/sales/:idOrDocNo.
type SaleResponse struct {
	ID           string             `json:"id"`
	DocNo        string             `json:"docNo"`
	DocDate      string             `json:"docDate"`
	Channel      string             `json:"channel"`
	CustomerID   string             `json:"customerId,omitempty"`
	CustomerName string             `json:"customerName"`
	Total        Money              `json:"total"`
	VAT          Money              `json:"vat"`
	GrandTotal   Money              `json:"grandTotal"`
	TotalCost    Money              `json:"totalCost"`
	Gross        Money              `json:"gross"`
	Status       string             `json:"status"`
	DeletedAt    *time.Time         `json:"deletedAt,omitempty"`
	DeletedBy    string             `json:"deletedBy,omitempty"`
	CreatedBy    string             `json:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt"`
	Items        []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleListQuery query string de GET /api/sales.
type SaleListQuery struct {
	From           string `query:"from"`
	To             string `query:"to"`
	Channel        string `query:"channel"`
	Status         string `query:"status"`
	Search         string `query:"q"`
	IncludeDeleted bool   `query:"include_deleted"`
	PageRequest
}
