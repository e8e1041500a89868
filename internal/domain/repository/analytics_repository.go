package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ChannelSalesResult resultado crudo de la consulta de ventas por canal.
// Lo produce la DB; el use case lo convierte en DTO.
type ChannelSalesResult struct {
	Channel   string // canal en minúsculas; "" se reporta como "direct"
	SaleCount int
	Revenue   decimal.Decimal // Σ grand_total
	TotalCOGS decimal.Decimal // Σ total_cost
}

// TopSKUResult SKU con mayor ingreso en el período.
type TopSKUResult struct {
	Code      string
	Name      string
	UnitsSold int
	Revenue   decimal.Decimal // Σ amount de las líneas
	TotalCOGS decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para dashboards y reportes.
// Excluye ventas eliminadas y CANCELLED. Las fechas comparan doc_date (inclusive).
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve ingresos (grand total) y COGS del período.
	GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (revenue, cost decimal.Decimal, err error)

	// GetTopSKUs devuelve los `limit` SKUs con mayor ingreso en el período.
	GetTopSKUs(ctx context.Context, startDate, endDate time.Time, limit int) ([]TopSKUResult, error)

	// GetSalesByChannel agrupa ventas por canal.
	GetSalesByChannel(ctx context.Context, startDate, endDate time.Time) ([]ChannelSalesResult, error)

	// GetAdSpendByPlatform suma el gasto publicitario por plataforma (minúsculas).
	GetAdSpendByPlatform(ctx context.Context, startDate, endDate time.Time) (map[string]decimal.Decimal, error)
}
