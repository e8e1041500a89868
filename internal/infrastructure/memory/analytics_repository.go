package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agrega sobre el estado en memoria con las mismas reglas que el SQL:
// fechas inclusivas sobre doc_date, sin ventas eliminadas ni canceladas.
type AnalyticsRepo struct {
	a accessor
}

func reportable(s *entity.Sale, start, end time.Time) bool {
	if s.IsDeleted() || s.Status == entity.SaleStatusCancelled {
		return false
	}
	return !s.DocDate.Before(start) && !s.DocDate.After(end)
}

// GetSalesMetrics suma grand total y COGS del período.
func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, start, end time.Time) (revenue, cost decimal.Decimal, err error) {
	revenue, cost = decimal.Zero, decimal.Zero
	err = r.a.with(func(st *state) error {
		for _, s := range st.sales {
			if reportable(s, start, end) {
				revenue = revenue.Add(s.GrandTotal)
				cost = cost.Add(s.TotalCost)
			}
		}
		return nil
	})
	return revenue, cost, err
}

// GetTopSKUs agrupa las líneas por código y ordena por ingreso.
func (r *AnalyticsRepo) GetTopSKUs(_ context.Context, start, end time.Time, limit int) ([]repository.TopSKUResult, error) {
	byCode := make(map[string]*repository.TopSKUResult)
	err := r.a.with(func(st *state) error {
		for _, s := range st.sales {
			if !reportable(s, start, end) {
				continue
			}
			for _, it := range s.Items {
				row, ok := byCode[it.Code]
				if !ok {
					row = &repository.TopSKUResult{Code: it.Code, Name: it.Name, Revenue: decimal.Zero, TotalCOGS: decimal.Zero}
					byCode[it.Code] = row
				}
				row.UnitsSold += it.Qty
				row.Revenue = row.Revenue.Add(it.Amount)
				row.TotalCOGS = row.TotalCOGS.Add(it.COGS)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.TopSKUResult, 0, len(byCode))
	for _, row := range byCode {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Code < out[j].Code
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetSalesByChannel agrupa por canal en minúsculas; sin canal → "direct".
func (r *AnalyticsRepo) GetSalesByChannel(_ context.Context, start, end time.Time) ([]repository.ChannelSalesResult, error) {
	byChannel := make(map[string]*repository.ChannelSalesResult)
	err := r.a.with(func(st *state) error {
		for _, s := range st.sales {
			if !reportable(s, start, end) {
				continue
			}
			ch := strings.ToLower(strings.TrimSpace(s.Channel))
			if ch == "" {
				ch = "direct"
			}
			row, ok := byChannel[ch]
			if !ok {
				row = &repository.ChannelSalesResult{Channel: ch, Revenue: decimal.Zero, TotalCOGS: decimal.Zero}
				byChannel[ch] = row
			}
			row.SaleCount++
			row.Revenue = row.Revenue.Add(s.GrandTotal)
			row.TotalCOGS = row.TotalCOGS.Add(s.TotalCost)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.ChannelSalesResult, 0, len(byChannel))
	for _, row := range byChannel {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Channel < out[j].Channel
	})
	return out, nil
}

// GetAdSpendByPlatform suma el gasto por plataforma en el período.
func (r *AnalyticsRepo) GetAdSpendByPlatform(_ context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	err := r.a.with(func(st *state) error {
		for _, a := range st.adSpend {
			if a.Date.Before(start) || a.Date.After(end) {
				continue
			}
			p := strings.ToLower(a.Platform)
			out[p] = out[p].Add(a.Spend)
		}
		return nil
	})
	return out, err
}
