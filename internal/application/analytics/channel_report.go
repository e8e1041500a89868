package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakura-shop/backoffice/internal/application/dto"
	"github.com/sakura-shop/backoffice/internal/domain"
	"github.com/sakura-shop/backoffice/internal/domain/repository"
	"github.com/sakura-shop/backoffice/internal/domain/sales"
)

// ChannelReportUseCase cruza ventas por canal con el gasto publicitario por plataforma.
type ChannelReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewChannelReportUseCase construye el caso de uso.
func NewChannelReportUseCase(analyticsRepo repository.AnalyticsRepository) *ChannelReportUseCase {
	return &ChannelReportUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// SetClock reemplaza el reloj usado para el período por defecto.
func (uc *ChannelReportUseCase) SetClock(now func() time.Time) { uc.now = now }

// SalesByChannel agrupa ventas del período por canal. El gasto de una plataforma se asigna al
// canal del mismo nombre (sin distinguir mayúsculas); las plataformas sin ventas aparecen con
// ventas en cero. Por defecto el período es el mes en curso.
func (uc *ChannelReportUseCase) SalesByChannel(ctx context.Context, fromStr, toStr string) (*dto.SalesByChannelDTO, error) {
	from, to, err := uc.parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	// Ventas y gasto en paralelo (llamadas independientes)
	type channelResult struct {
		rows []repository.ChannelSalesResult
		err  error
	}
	type spendResult struct {
		byPlatform map[string]decimal.Decimal
		err        error
	}
	chCh := make(chan channelResult, 1)
	spendCh := make(chan spendResult, 1)
	go func() {
		rows, err := uc.analyticsRepo.GetSalesByChannel(ctx, from, to)
		chCh <- channelResult{rows, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetAdSpendByPlatform(ctx, from, to)
		spendCh <- spendResult{m, err}
	}()
	chRes := <-chCh
	spendRes := <-spendCh
	if chRes.err != nil {
		return nil, fmt.Errorf("reporte por canal: ventas: %w", chRes.err)
	}
	if spendRes.err != nil {
		return nil, fmt.Errorf("reporte por canal: gasto: %w", spendRes.err)
	}

	channels := make([]dto.ChannelReportDTO, 0, len(chRes.rows)+len(spendRes.byPlatform))
	seen := make(map[string]bool, len(chRes.rows))
	for _, r := range chRes.rows {
		key := strings.ToLower(r.Channel)
		seen[key] = true
		spend := spendRes.byPlatform[key]
		channels = append(channels, dto.ChannelReportDTO{
			Channel:   key,
			SaleCount: r.SaleCount,
			Revenue:   dto.NewMoney(r.Revenue),
			TotalCOGS: dto.NewMoney(r.TotalCOGS),
			Margin:    dto.NewMoney(r.Revenue.Sub(r.TotalCOGS)),
			AdSpend:   dto.NewMoney(spend),
			ROAS:      dto.NewMoney(roas(r.Revenue, spend)),
		})
	}
	platforms := make([]string, 0, len(spendRes.byPlatform))
	for p := range spendRes.byPlatform {
		if !seen[p] {
			platforms = append(platforms, p)
		}
	}
	sort.Strings(platforms)
	for _, p := range platforms {
		channels = append(channels, dto.ChannelReportDTO{
			Channel: p,
			AdSpend: dto.NewMoney(spendRes.byPlatform[p]),
		})
	}

	return &dto.SalesByChannelDTO{
		From:     from.Format("2006-01-02"),
		To:       to.Format("2006-01-02"),
		Channels: channels,
	}, nil
}

// parsePeriod convierte los strings de fecha (mismos formatos que docDate); vacíos = mes en curso.
func (uc *ChannelReportUseCase) parsePeriod(fromStr, toStr string) (from, to time.Time, err error) {
	now := uc.now()
	to = sales.DateOnly(now)
	if strings.TrimSpace(toStr) != "" {
		var ok bool
		if to, ok = sales.ParseDocDate(toStr, now); !ok {
			return time.Time{}, time.Time{}, domain.NewValidationError("fecha 'to' inválida: %q", toStr)
		}
	}
	from = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, sales.Location)
	if strings.TrimSpace(fromStr) != "" {
		var ok bool
		if from, ok = sales.ParseDocDate(fromStr, now); !ok {
			return time.Time{}, time.Time{}, domain.NewValidationError("fecha 'from' inválida: %q", fromStr)
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, domain.NewValidationError("'from' no puede ser posterior a 'to'")
	}
	return from, to, nil
}
