package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Cost es promedio ponderado calculado desde las recepciones; Stock baja con cada venta.
type Product struct {
	ID          string
	Code        string // código único
	Name        string
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Price       decimal.Decimal // precio de venta vigente
	Stock       int
	SafetyStock int // umbral para alerta de stock bajo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock está en o por debajo del stock de seguridad.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.SafetyStock
}
