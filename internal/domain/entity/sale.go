package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Desde NEW se puede pasar a cualquier otro sin orden forzado.
const (
	SaleStatusNew       = "NEW"
	SaleStatusPending   = "PENDING"
	SaleStatusConfirmed = "CONFIRMED"
	SaleStatusCancelled = "CANCELLED"
)

// ValidSaleStatus indica si s es un estado conocido.
func ValidSaleStatus(s string) bool {
	switch s {
	case SaleStatusNew, SaleStatusPending, SaleStatusConfirmed, SaleStatusCancelled:
		return true
	}
	return false
}

// Sale cabecera de la venta. Total = Σ item.Amount y TotalCost = Σ item.COGS (2 decimales).
// GrandTotal = Total + VAT.
type Sale struct {
	ID           string
	DocNo        string
	DocDate      time.Time // solo fecha (00:00 en la zona de referencia)
	ListDate     time.Time // fecha del documento con la hora de captura, para ordenar listados
	Channel      string
	CustomerID   *string
	CustomerName string
	Total        decimal.Decimal
	VAT          decimal.Decimal
	GrandTotal   decimal.Decimal
	TotalCost    decimal.Decimal
	Status       string
	DeletedAt    *time.Time
	DeletedBy    *string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []SaleItem
}

// IsDeleted indica si la venta está eliminada (soft delete).
func (s *Sale) IsDeleted() bool {
	return s.DeletedAt != nil
}

// SaleItem línea de venta. Price, Discount y CostEach son fotos al momento de la venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Code      string
	Name      string
	Qty       int
	Price     decimal.Decimal
	Discount  decimal.Decimal
	Amount    decimal.Decimal // Qty × Price − Discount
	CostEach  decimal.Decimal
	COGS      decimal.Decimal // CostEach × Qty
}
