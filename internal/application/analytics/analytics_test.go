package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakura-shop/backoffice/internal/application/analytics"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
)

var now = time.Date(2026, 10, 16, 10, 30, 0, 0, sales.Location)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type period struct{ start, end string }

// stubAnalytics devuelve datos fijos y registra los rangos consultados.
type stubAnalytics struct {
	mu       sync.Mutex
	metrics  map[period][2]decimal.Decimal
	top      []repository.TopSKUResult
	channels []repository.ChannelSalesResult
	spend    map[string]decimal.Decimal
	err      error
	calls    []period
}

func (s *stubAnalytics) record(start, end time.Time) period {
	p := period{start.Format("2006-01-02"), end.Format("2006-01-02")}
	s.mu.Lock()
	s.calls = append(s.calls, p)
	s.mu.Unlock()
	return p
}

func (s *stubAnalytics) GetSalesMetrics(_ context.Context, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	m := s.metrics[s.record(start, end)]
	return m[0], m[1], s.err
}

func (s *stubAnalytics) GetTopSKUs(_ context.Context, start, end time.Time, limit int) ([]repository.TopSKUResult, error) {
	s.record(start, end)
	return s.top, nil
}

func (s *stubAnalytics) GetSalesByChannel(_ context.Context, start, end time.Time) ([]repository.ChannelSalesResult, error) {
	s.record(start, end)
	return s.channels, s.err
}

func (s *stubAnalytics) GetAdSpendByPlatform(_ context.Context, start, end time.Time) (map[string]decimal.Decimal, error) {
	s.record(start, end)
	return s.spend, nil
}

type lowStock int

func (n lowStock) CountLowStock(context.Context) (int, error) { return int(n), nil }

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Summary(t *testing.T) {
	repo := &stubAnalytics{
		metrics: map[period][2]decimal.Decimal{
			{"2026-10-16", "2026-10-16"}: {dec("214"), dec("120")},
			{"2026-10-01", "2026-10-16"}: {dec("1000"), dec("600")},
		},
		top: []repository.TopSKUResult{
			{Code: "A1", Name: "Taza", UnitsSold: 4, Revenue: dec("400"), TotalCOGS: dec("300")},
		},
		spend: map[string]decimal.Decimal{"facebook": dec("150"), "tiktok": dec("50")},
	}
	uc := analytics.NewDashboardUseCase(repo, lowStock(3))
	uc.SetClock(func() time.Time { return now })

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "214.00", got.TodaySales.StringFixed(2))
	assert.Equal(t, "94.00", got.TodayMargin.StringFixed(2))
	assert.Equal(t, "1000.00", got.MonthlySales.StringFixed(2))
	assert.Equal(t, "400.00", got.MonthlyMargin.StringFixed(2))
	assert.Equal(t, "200.00", got.MonthlyAdSpend.StringFixed(2))
	assert.Equal(t, "5.00", got.MonthlyROAS.StringFixed(2))
	assert.Equal(t, 3, got.LowStockCount)
	assert.Equal(t, "ตุลาคม 2569", got.DateLabel)
	require.Len(t, got.TopSKUs, 1)
	assert.Equal(t, "25.00", got.TopSKUs[0].MarginPercentage.StringFixed(2))
}

func TestDashboard_PropagatesRepositoryErrors(t *testing.T) {
	repo := &stubAnalytics{err: errors.New("timeout")}
	uc := analytics.NewDashboardUseCase(repo, lowStock(0))
	uc.SetClock(func() time.Time { return now })

	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas por canal
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesByChannel_MatchesSpendToChannels(t *testing.T) {
	repo := &stubAnalytics{
		channels: []repository.ChannelSalesResult{
			{Channel: "Facebook", SaleCount: 3, Revenue: dec("900"), TotalCOGS: dec("500")},
			{Channel: "direct", SaleCount: 1, Revenue: dec("100"), TotalCOGS: dec("40")},
		},
		spend: map[string]decimal.Decimal{"facebook": dec("300"), "tiktok": dec("80")},
	}
	uc := analytics.NewChannelReportUseCase(repo)
	uc.SetClock(func() time.Time { return now })

	got, err := uc.SalesByChannel(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "2026-10-01", got.From)
	assert.Equal(t, "2026-10-16", got.To)
	require.Len(t, got.Channels, 3)

	fb := got.Channels[0]
	assert.Equal(t, "facebook", fb.Channel)
	assert.Equal(t, "400.00", fb.Margin.StringFixed(2))
	assert.Equal(t, "3.00", fb.ROAS.StringFixed(2))

	assert.Equal(t, "direct", got.Channels[1].Channel)
	assert.True(t, got.Channels[1].AdSpend.IsZero())

	tiktok := got.Channels[2]
	assert.Equal(t, "tiktok", tiktok.Channel)
	assert.Zero(t, tiktok.SaleCount)
	assert.Equal(t, "80.00", tiktok.AdSpend.StringFixed(2))
}

func TestSalesByChannel_PeriodValidation(t *testing.T) {
	uc := analytics.NewChannelReportUseCase(&stubAnalytics{})
	uc.SetClock(func() time.Time { return now })

	_, err := uc.SalesByChannel(context.Background(), "2026-10-20", "2026-10-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.SalesByChannel(context.Background(), "hoy", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.SalesByChannel(context.Background(), "01/09/2569", "30/09/2569")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", got.From)
	assert.Equal(t, "2026-09-30", got.To)
}
