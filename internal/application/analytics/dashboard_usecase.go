// Package analytics contiene los casos de uso para reportes de negocio y el
// dashboard de ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
)

const dashboardTopSKUs = 5 // número de SKUs en el widget del dashboard

var hundred = decimal.NewFromInt(100)

// lowStockCounter lo único que el dashboard necesita del repo de productos.
type lowStockCounter interface {
	CountLowStock(ctx context.Context) (int, error)
}

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y el conteo de stock bajo.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	products      lowStockCounter
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, products lowStockCounter) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, products: products, now: time.Now}
}

// SetClock reemplaza el reloj que define "hoy" y el mes en curso.
func (uc *DashboardUseCase) SetClock(now func() time.Time) { uc.now = now }

// GetSummary construye el DashboardSummaryDTO.
//
// Tres llamadas en paralelo:
//  1. GetSalesMetrics(hoy)    → TodaySales + TodayMargin
//  2. GetSalesMetrics(mes)    → MonthlySales + MonthlyMargin
//  3. GetTopSKUs(mes, top 5)  → TopSKUs
//
// Después, gasto publicitario del mes (ROAS) y conteo de stock bajo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(sales.Location)

	// ── Rangos de fecha (doc_date, inclusive) ─────────────────────────────────
	today := sales.DateOnly(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, sales.Location)

	// ── Goroutines para paralelizar las 3 consultas DB ────────────────────────
	type metricsResult struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
		err     error
	}
	type topSKUsResult struct {
		skus []repository.TopSKUResult
		err  error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	skusCh := make(chan topSKUsResult, 1)

	go func() {
		rev, cost, err := uc.analyticsRepo.GetSalesMetrics(ctx, today, today)
		todayCh <- metricsResult{rev, cost, err}
	}()
	go func() {
		rev, cost, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, today)
		monthCh <- metricsResult{rev, cost, err}
	}()
	go func() {
		skus, err := uc.analyticsRepo.GetTopSKUs(ctx, monthStart, today, dashboardTopSKUs)
		skusCh <- topSKUsResult{skus, err}
	}()

	todayRes := <-todayCh
	monthRes := <-monthCh
	skusRes := <-skusCh

	if todayRes.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", todayRes.err)
	}
	if monthRes.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", monthRes.err)
	}
	if skusRes.err != nil {
		return nil, fmt.Errorf("dashboard: top SKUs: %w", skusRes.err)
	}

	spendByPlatform, err := uc.analyticsRepo.GetAdSpendByPlatform(ctx, monthStart, today)
	if err != nil {
		return nil, fmt.Errorf("dashboard: gasto publicitario: %w", err)
	}
	adSpend := decimal.Zero
	for _, v := range spendByPlatform {
		adSpend = adSpend.Add(v)
	}
	lowStock, err := uc.products.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", err)
	}

	topSKUs := make([]dto.TopSKUDTO, 0, len(skusRes.skus))
	for _, s := range skusRes.skus {
		topSKUs = append(topSKUs, dto.TopSKUDTO{
			Code:             s.Code,
			Name:             s.Name,
			QuantitySold:     s.UnitsSold,
			TotalRevenue:     dto.NewMoney(s.Revenue),
			MarginPercentage: dto.NewMoney(marginPct(s.Revenue, s.TotalCOGS)),
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:     dto.NewMoney(todayRes.revenue),
		TodayMargin:    dto.NewMoney(todayRes.revenue.Sub(todayRes.cost)),
		MonthlySales:   dto.NewMoney(monthRes.revenue),
		MonthlyMargin:  dto.NewMoney(monthRes.revenue.Sub(monthRes.cost)),
		MonthlyAdSpend: dto.NewMoney(adSpend),
		MonthlyROAS:    dto.NewMoney(roas(monthRes.revenue, adSpend)),
		TopSKUs:        topSKUs,
		LowStockCount:  lowStock,
		DateLabel:      monthLabel(now),
	}, nil
}

// marginPct (revenue - cogs) / revenue * 100, 0 si no hay ingresos.
func marginPct(revenue, cogs decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(cogs).Div(revenue).Mul(hundred)
}

// roas ventas / gasto publicitario, 0 sin gasto.
func roas(revenue, spend decimal.Decimal) decimal.Decimal {
	if !spend.IsPositive() {
		return decimal.Zero
	}
	return revenue.Div(spend)
}

// monthLabel devuelve el mes en tailandés con año budista, ej: "ตุลาคม 2569".
func monthLabel(t time.Time) string {
	months := [...]string{
		"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
		"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], sales.BuddhistYear(t))
}
