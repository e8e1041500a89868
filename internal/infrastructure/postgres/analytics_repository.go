package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// reportableSales condición común: ni eliminadas ni canceladas.
const reportableSales = `s.deleted_at IS NULL AND s.status <> 'CANCELLED'`

// AnalyticsRepo consultas de solo lectura para dashboard y reportes.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics devuelve ingresos (grand total) y COGS del período.
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *AnalyticsRepo) GetSalesMetrics(
	ctx context.Context,
	startDate, endDate time.Time,
) (revenue, cost decimal.Decimal, err error) {
	query := `
	SELECT
	    COALESCE(SUM(s.grand_total), 0) AS revenue,
	    COALESCE(SUM(s.total_cost),  0) AS cost
	FROM sales s
	WHERE s.doc_date BETWEEN $1 AND $2
	  AND ` + reportableSales

	err = r.q.QueryRow(ctx, query, startDate, endDate).Scan(&revenue, &cost)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return revenue, cost, nil
}

// GetTopSKUs devuelve los `limit` códigos con mayor ingreso (Σ amount) en el período.
func (r *AnalyticsRepo) GetTopSKUs(
	ctx context.Context,
	startDate, endDate time.Time,
	limit int,
) ([]repository.TopSKUResult, error) {
	query := `
	SELECT
	    i.code,
	    MAX(i.name)   AS name,
	    SUM(i.qty)    AS units_sold,
	    SUM(i.amount) AS revenue,
	    SUM(i.cogs)   AS total_cogs
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.doc_date BETWEEN $1 AND $2
	  AND ` + reportableSales + `
	GROUP BY i.code
	ORDER BY revenue DESC, i.code
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopSKUs: %w", err)
	}
	defer rows.Close()

	results := []repository.TopSKUResult{}
	for rows.Next() {
		var row repository.TopSKUResult
		if err := rows.Scan(&row.Code, &row.Name, &row.UnitsSold, &row.Revenue, &row.TotalCOGS); err != nil {
			return nil, fmt.Errorf("analytics.GetTopSKUs scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopSKUs rows: %w", err)
	}
	return results, nil
}

// GetSalesByChannel agrupa ventas por canal (minúsculas). Sin canal → "direct".
func (r *AnalyticsRepo) GetSalesByChannel(
	ctx context.Context,
	startDate, endDate time.Time,
) ([]repository.ChannelSalesResult, error) {
	query := `
	SELECT
	    COALESCE(NULLIF(lower(s.channel), ''), 'direct') AS channel,
	    COUNT(*)                                        AS sale_count,
	    SUM(s.grand_total)                              AS revenue,
	    SUM(s.total_cost)                               AS total_cogs
	FROM sales s
	WHERE s.doc_date BETWEEN $1 AND $2
	  AND ` + reportableSales + `
	GROUP BY 1
	ORDER BY revenue DESC`

	rows, err := r.q.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSalesByChannel: %w", err)
	}
	defer rows.Close()

	var results []repository.ChannelSalesResult
	for rows.Next() {
		var row repository.ChannelSalesResult
		if err := rows.Scan(&row.Channel, &row.SaleCount, &row.Revenue, &row.TotalCOGS); err != nil {
			return nil, fmt.Errorf("analytics.GetSalesByChannel scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetAdSpendByPlatform suma el gasto publicitario por plataforma (minúsculas).
func (r *AnalyticsRepo) GetAdSpendByPlatform(
	ctx context.Context,
	startDate, endDate time.Time,
) (map[string]decimal.Decimal, error) {
	const query = `
	SELECT lower(platform), SUM(spend)
	FROM ad_spend
	WHERE date BETWEEN $1 AND $2
	GROUP BY 1`

	rows, err := r.q.Query(ctx, query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetAdSpendByPlatform: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var platform string
		var spend decimal.Decimal
		if err := rows.Scan(&platform, &spend); err != nil {
			return nil, fmt.Errorf("analytics.GetAdSpendByPlatform scan: %w", err)
		}
		out[platform] = spend
	}
	return out, rows.Err()
}
